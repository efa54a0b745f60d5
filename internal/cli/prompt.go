package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"golang.org/x/term"
)

// Prompter asks the operator questions on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	fd  int // terminal descriptor for hidden input, -1 when stdin is not a terminal
	out io.Writer
}

var _ ports.FlagSelector = (*Prompter)(nil)

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), fd: fd, out: out}
}

// readLine returns one trimmed line. Cancellation is observed between lines.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			return "", fmt.Errorf("input error: %w", ErrInterrupted)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prints question and returns the answer.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(p.out, "%s ", question)
	return p.readLine(ctx)
}

// Secret reads a value without echo when attached to a terminal.
func (p *Prompter) Secret(ctx context.Context, question string) (string, error) {
	if p.fd < 0 {
		return p.Ask(ctx, question)
	}
	fmt.Fprintf(p.out, "%s ", question)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Confirm asks a yes/no question. Anything but y/yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// SelectFlags lists every flag and reads two answers: the flags to set, then the
// flags to clear. Each answer is a comma or space separated list of menu numbers,
// protocol names or aliases. Invalid answers are asked again.
func (p *Prompter) SelectFlags(ctx context.Context) (domain.FlagSelection, error) {
	all := domain.AllFlags()
	fmt.Fprintln(p.out, "Issuer account flags:")
	for i, f := range all {
		fmt.Fprintf(p.out, "  %2d) %-34s %s\n", i+1, f.String(), f.Description())
	}

	for {
		set, err := p.askFlags(ctx, "Flags to SET (blank for none):", all)
		if err != nil {
			return domain.FlagSelection{}, err
		}
		unset, err := p.askFlags(ctx, "Flags to CLEAR (blank for none):", all)
		if err != nil {
			return domain.FlagSelection{}, err
		}
		sel, err := domain.NewFlagSelection(set, unset)
		if err == nil && sel.Contains(domain.FlagDisableMaster) {
			err = fmt.Errorf("%s is applied by the black hole step, answer yes to it instead", domain.FlagDisableMaster)
		}
		if err == nil {
			return sel, nil
		}
		fmt.Fprintf(p.out, "invalid selection: %v\n", err)
	}
}

func (p *Prompter) askFlags(ctx context.Context, question string, menu []domain.AccountFlag) ([]domain.AccountFlag, error) {
	for {
		answer, err := p.Ask(ctx, question)
		if err != nil {
			return nil, err
		}
		flags, err := parseFlagAnswer(answer, menu)
		if err == nil {
			return flags, nil
		}
		fmt.Fprintf(p.out, "%v\n", err)
	}
}

func parseFlagAnswer(answer string, menu []domain.AccountFlag) ([]domain.AccountFlag, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]domain.AccountFlag, 0, len(fields))
	for _, field := range fields {
		if n, err := strconv.Atoi(field); err == nil {
			if n < 1 || n > len(menu) {
				return nil, fmt.Errorf("menu number %d out of range", n)
			}
			out = append(out, menu[n-1])
			continue
		}
		f, err := domain.ParseAccountFlag(field)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/genetic"
	"github.com/spf13/cobra"
)

// geneticSession paces one optimizer through scoring rounds, either
// interactively or from scripted score lists.
type geneticSession struct {
	opt    *genetic.Optimizer
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
}

func newGeneticSession(cmd *cobra.Command, opt *genetic.Optimizer) *geneticSession {
	return &geneticSession{
		opt:    opt,
		in:     bufio.NewScanner(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
}

// runScripted scores one generation per score list, evolving between
// lists. The last generation stays scored so it feeds the running best.
func (s *geneticSession) runScripted(scoreLists []string) error {
	for gen, scores := range scoreLists {
		values, err := parseScoreList(scores, len(s.opt.Population()))
		if err != nil {
			return fmt.Errorf("generation %d scores: %w", gen+1, err)
		}
		for i, v := range values {
			if err := s.opt.Score(i, v); err != nil {
				return err
			}
		}
		if gen < len(scoreLists)-1 {
			if err := s.opt.Evolve(); err != nil {
				return err
			}
		}
	}
	return nil
}

// runInteractive shows each generation and reads scores until the user
// quits.
func (s *geneticSession) runInteractive() error {
	for {
		s.printGeneration()
		quit, err := s.scoreGeneration()
		if err != nil {
			return err
		}
		if quit || !s.confirmEvolve() {
			return nil
		}
		if err := s.opt.Evolve(); err != nil {
			return err
		}
	}
}

func (s *geneticSession) printGeneration() {
	fmt.Fprintf(s.out, "\nGeneration %d - score each scheme from 0 (bad) to 10 (great)\n", s.opt.Generation()+1)
	for i, ind := range s.opt.Population() {
		fmt.Fprintln(s.out, formatScheme(i, ind.Scheme))
	}
}

// scoreGeneration prompts for every unscored scheme. It reports true when
// the user quits early or input runs out.
func (s *geneticSession) scoreGeneration() (bool, error) {
	for _, idx := range s.opt.Unscored() {
		for {
			fmt.Fprintf(s.out, "score %d [0-10, q to finish]: ", idx+1)
			line, ok := s.readLine()
			if !ok {
				return true, nil
			}
			value, quit, err := parseScore(line)
			if quit {
				return true, nil
			}
			if err != nil {
				fmt.Fprintln(s.errOut, err)
				continue
			}
			if err := s.opt.Score(idx, value); err != nil {
				fmt.Fprintln(s.errOut, err)
				continue
			}
			break
		}
	}
	return false, nil
}

// confirmEvolve summarises the scored generation and asks whether to
// breed the next one.
func (s *geneticSession) confirmEvolve() bool {
	var best, total float64
	pop := s.opt.Population()
	for _, ind := range pop {
		total += ind.Score
		if ind.Score > best {
			best = ind.Score
		}
	}
	fmt.Fprintf(s.out, "Generation %d scored: average %.1f, best %.1f\n",
		s.opt.Generation()+1, total/float64(len(pop)), best)
	fmt.Fprint(s.out, "Evolve the next generation? [Y/n]: ")

	line, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

func (s *geneticSession) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// formatScheme renders one scheme as an indexed row of colour blocks
// followed by the hex codes.
func formatScheme(index int, scheme genetic.Scheme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%2d]", index+1)
	for _, c := range scheme {
		b.WriteString(" " + colour.ColourPreview(c, 4))
	}
	for _, c := range scheme {
		b.WriteString(" " + c.Hex())
	}
	return b.String()
}

// parseScore interprets one score prompt reply.
func parseScore(line string) (value float64, quit bool, err error) {
	if line == "q" || line == "quit" {
		return 0, true, nil
	}
	value, err = strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, false, fmt.Errorf("enter a number between 0 and 10, or q to finish")
	}
	return value, false, nil
}

// parseScoreList parses a comma-separated score list covering a whole
// generation.
func parseScoreList(s string, want int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != want {
		return nil, fmt.Errorf("got %d scores, want %d", len(fields), want)
	}
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("score %q is not a number", field)
		}
		values[i] = v
	}
	return values, nil
}

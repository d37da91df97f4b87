package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/alloctuner/internal/modules/allocation"
)

// Interactive collects the two risk metrics from a human operator.
// Each trial's candidate allocation is printed, then Sharpe and
// MaxDrawdown are prompted for with an explicit confirmation step.
// Malformed or unconfirmed input re-prompts the same trial; the
// candidate is never re-sampled.
type Interactive struct {
	in        *bufio.Reader
	out       io.Writer
	precision int
	log       zerolog.Logger
}

// NewInteractive creates an interactive evaluator reading from in and
// prompting on out. precision is the internal weight precision; printed
// percentages use precision-2 decimals.
func NewInteractive(in io.Reader, out io.Writer, precision int, log zerolog.Logger) *Interactive {
	return &Interactive{
		in:        bufio.NewReader(in),
		out:       out,
		precision: precision,
		log:       log.With().Str("evaluator", "interactive").Logger(),
	}
}

// Evaluate prints the candidate and blocks until a confirmed pair of
// numeric metrics has been entered. It only fails if the input stream
// itself fails (e.g. EOF).
func (e *Interactive) Evaluate(trialID int, assets []string, weights allocation.Weights) (Metrics, error) {
	e.printCandidate(assets, weights)

	for {
		sharpe, err := e.promptFloat("Enter Sharpe: ", "Sharpe")
		if err != nil {
			return Metrics{}, err
		}
		maxDrawdown, err := e.promptFloat("Enter MaxDrawdown (as a percentage, e.g. 20 for 20%): ", "MaxDrawdown")
		if err != nil {
			return Metrics{}, err
		}

		fmt.Fprintln(e.out)
		fmt.Fprintln(e.out, "You entered:")
		fmt.Fprintf(e.out, "  Sharpe: %v\n", sharpe)
		fmt.Fprintf(e.out, "  MaxDrawdown: %v\n", maxDrawdown)

		confirmed, err := e.confirm()
		if err != nil {
			return Metrics{}, err
		}
		if confirmed {
			return Metrics{Sharpe: sharpe, MaxDrawdown: maxDrawdown}, nil
		}

		fmt.Fprintln(e.out, "Let's re-enter the values.")
	}
}

// printCandidate renders the allocation as percentages with
// precision-2 decimals, plus their sum.
func (e *Interactive) printCandidate(assets []string, weights allocation.Weights) {
	decimals := e.precision - 2
	if decimals < 0 {
		decimals = 0
	}

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, "=========================================")
	fmt.Fprintln(e.out, "Trial candidate allocation (percentages):")
	for i, asset := range assets {
		fmt.Fprintf(e.out, "%s: %.*f%%\n", asset, decimals, weights[i]*100)
	}
	fmt.Fprintf(e.out, "Sum: %.*f%%\n", decimals, weights.Sum()*100)
	fmt.Fprintln(e.out, "=========================================")
}

// promptFloat asks for one numeric value, re-prompting until the input
// parses.
func (e *Interactive) promptFloat(prompt, field string) (float64, error) {
	for {
		line, err := e.readLine(prompt)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", field, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			fmt.Fprintf(e.out, "Invalid input for %s. Please enter a numeric value.\n", field)
			continue
		}
		return value, nil
	}
}

// confirm asks whether the entered values are correct. Anything other
// than an accept or reject answer re-prompts.
func (e *Interactive) confirm() (bool, error) {
	for {
		line, err := e.readLine("Are these values correct? (Y/n/back): ")
		if err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "":
			return true, nil
		case "n", "no", "back", "b":
			return false, nil
		default:
			fmt.Fprintln(e.out, "Invalid response. Please answer with 'Y' or 'n'.")
		}
	}
}

func (e *Interactive) readLine(prompt string) (string, error) {
	fmt.Fprint(e.out, prompt)
	line, err := e.in.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		return "", err
	}
	return line, nil
}

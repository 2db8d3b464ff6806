// Command estimate reads a potential request as JSON from a file or stdin and
// prints the calculated result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/solar"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"github.com/raterudder/rooftopsolar/pkg/validate"
)

type output struct {
	Result   types.SolarPotentialResult `json:"result"`
	Warnings []string                   `json:"warnings,omitempty"`
}

func main() {
	c := catalog.Configured()
	file := lflag.String("file", "", "JSON request to read, stdin if empty")
	lflag.Configure()

	ctx := context.Background()

	in := io.Reader(os.Stdin)
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to open request", slog.Any("error", err))
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var req solar.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		os.Exit(1)
	}

	res := solar.NewCalculator(c).CalculatePotential(ctx, req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{Result: res, Warnings: validate.CalculationResult(res)}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

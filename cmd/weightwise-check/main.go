// Command weightwise-check loads a pipeline artifact, describes it and optionally scores one record
//
//	weightwise-check -artifact artifacts/obesity_model.yaml
//	weightwise-check -artifact artifacts/obesity_model.yaml -predict record.json
//	echo '{...}' | weightwise-check -predict -
//
// With no -artifact the CORE_ARTIFACT_* environment picks the source, as the API does.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"weightwise/internal/adapters/artifact"
	"weightwise/internal/platform/config"
	"weightwise/internal/platform/net/http/bind"
	"weightwise/internal/services/api/predict/domain"
	"weightwise/internal/services/api/predict/service"
)

// exit codes
const (
	exitOK      = 0
	exitUsage   = 1
	exitLoad    = 2
	exitInvalid = 3
	exitPredict = 4
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weightwise-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("artifact", "", "artifact file (default: CORE_ARTIFACT_* config)")
	sha := fs.String("sha256", "", "expected artifact checksum")
	record := fs.String("predict", "", "JSON record to score, - for stdin")
	quiet := fs.Bool("q", false, "skip the pipeline description")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	artCfg := config.New().Prefix("CORE_ARTIFACT_")
	var src artifact.Source = artifact.File(*path)
	if *path == "" {
		var err error
		if src, err = artifact.FromConfig(artCfg); err != nil {
			fmt.Fprintln(stderr, "artifact source:", err)
			return exitUsage
		}
	}
	if *sha == "" {
		*sha = artCfg.MayString("SHA256", "")
	}

	p, err := artifact.Load(ctx, src, *sha)
	_ = artifact.Release(src)
	if err != nil {
		fmt.Fprintln(stderr, "load:", err)
		return exitLoad
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if !*quiet {
		_ = enc.Encode(p.Describe())
	}
	if *record == "" {
		return exitOK
	}

	var in io.Reader = stdin
	if *record != "-" {
		f, err := os.Open(*record)
		if err != nil {
			fmt.Fprintln(stderr, "record:", err)
			return exitUsage
		}
		defer f.Close()
		in = f
	}

	// same binding path as POST /predict
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/predict", in)
	if err != nil {
		fmt.Fprintln(stderr, "record:", err)
		return exitUsage
	}
	dto, err := bind.ParseJSON[domain.PredictInput](req)
	if err != nil {
		fmt.Fprintln(stderr, "invalid record:", err)
		for _, is := range bind.Issues(err) {
			fmt.Fprintf(stderr, "  %s: %s\n", is.Field, is.Message)
		}
		return exitInvalid
	}

	svc, err := service.New(p)
	if err != nil {
		fmt.Fprintln(stderr, "pipeline:", err)
		return exitLoad
	}
	res, err := svc.Predict(ctx, dto.Record())
	if err != nil {
		fmt.Fprintln(stderr, "predict:", err)
		return exitPredict
	}
	out := struct {
		domain.PredictionResult
		Label string `json:"label,omitempty"`
	}{PredictionResult: res}
	out.Label, _ = p.Label(res.Prediction)
	_ = enc.Encode(out)
	return exitOK
}

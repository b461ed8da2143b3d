// Package main provides a one-shot scoring CLI: it reads an evidence document
// from a file or stdin, scores it, and prints the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/service"
)

func main() {
	var (
		inputPath  = flag.String("input", "-", "Path to the evidence document JSON, or - for stdin")
		reportOnly = flag.Bool("report", false, "Print only the rounded presentation report")
	)
	flag.Parse()

	raw, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read evidence document: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	scorer, err := service.NewScoringService(logger)
	if err != nil {
		log.Fatalf("Failed to create scoring service: %v", err)
	}

	result, err := scorer.ScoreRaw(raw)
	if err != nil {
		log.Fatalf("Failed to score document: %v", err)
	}

	var out interface{} = result
	if *reportOnly {
		out = service.Report(result)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(encoded))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// Command predict runs one prediction against the configured model artifact.
//
//	predict -config config.yaml -input patient.json
//	echo '{"age":63,...}' | predict
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"cardioml/config"
	"cardioml/logging"
	"cardioml/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	input := flag.String("input", "-", "JSON payload file, - for stdin")
	modelPath := flag.String("model_path", "", "override ml.model_path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *modelPath != "" {
		cfg.ML.ModelPath = *modelPath
	}
	cfg.ML.CacheSize = 0

	logCfg := cfg.Log
	logCfg.File = ""
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	holder := ml.Load(cfg.ML, logger)
	defer holder.Close()

	if err := run(holder, *input, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		holder.Close()
		os.Exit(1)
	}
}

func run(holder *ml.Holder, input string, stdin io.Reader, out io.Writer) error {
	if !holder.Loaded() {
		return ml.ErrModelNotLoaded
	}

	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	features, err := ml.DecodeFeatures(r)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	prediction, err := holder.Predict(features)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(ml.NewResult(prediction))
}

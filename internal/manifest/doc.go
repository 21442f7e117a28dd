// Package manifest loads batch manifests: a list of inputs, each consolidated
// into its own artifact in a single run.
//
// # Manifest Format
//
// Manifests can be written in YAML or JSON format:
//
//	sources:
//	  - input: https://github.com/org/service
//	  - input: ./tools/cli
//	    output: cli.txt
//	options:
//	  continue_on_error: true
//	  output_dir: ./bundles
//	  concurrency: 2
//
// A source without an output is written to output_dir/{name}.txt, where name
// is the last segment of its input.
//
// # Usage
//
//	loader := manifest.NewLoader()
//	cfg, err := loader.Load("sources.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := orchestrator.RunManifest(ctx, cfg)
package manifest

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/parser"
)

var parseFile string

var parseCmd = &cobra.Command{
	Use:   "parse [outline-doc-id]",
	Short: "Parse an outline and print the resulting spec without generating",
	Long: `Parse runs only the extraction stage: it reads the outline from a
store document ID, or from a local file with --file, and prints the
parsed course spec as YAML. Nothing is written anywhere.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var raw, sourceID string
		switch {
		case parseFile != "":
			data, err := os.ReadFile(parseFile)
			if err != nil {
				exitWithError("read file: %v", err)
			}
			raw, sourceID = string(data), parseFile
		case len(args) == 1:
			st, err := getStore(ctx)
			if err != nil {
				exitWithError("%v", err)
			}
			raw, err = st.ReadContent(ctx, args[0])
			if err != nil {
				exitWithError("read outline %s: %v", args[0], err)
			}
			sourceID = args[0]
		default:
			exitWithError("provide an outline document ID or --file")
		}

		spec, err := parser.Parse(raw, sourceID)
		if err != nil {
			exitWithError("parse outline: %v", err)
		}

		out, err := yaml.Marshal(spec)
		if err != nil {
			exitWithError("encode spec: %v", err)
		}

		fmt.Print(string(out))
		fmt.Printf("\n%d modules, %d topics\n", len(spec.Modules), spec.TopicCount())

		if result := models.Validate(spec); !result.Valid {
			exitWithError("spec invalid: %v", result.Err())
		}
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "read the outline from a local file instead of the store")
}

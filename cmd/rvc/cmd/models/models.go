package models

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"rvc-service/cmd/rvc/cmd/cli"
	"rvc-service/internal/api/v1/dto"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/registry"
)

var asJSON bool

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "print the list in the /models response format")
}

// Cmd represents the models command
var Cmd = &cobra.Command{
	Use:   "models",
	Short: "List the voice models found in the weights directory",
	Long: `List the voice models found in the weights directory.

- Reads the weights directory directly, the service does not need to be running`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cli.Load()
		if err != nil {
			return err
		}

		reg := registry.New(cfg.Storage.WeightsDir, logger)
		if _, err := reg.Scan(); err != nil {
			return err
		}

		list := reg.List()
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		return printModels(cmd.OutOrStdout(), list, asJSON)
	},
}

func printModels(w io.Writer, list []model.VoiceModel, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.ListModelsResponse{
			Success: true,
			Models:  lo.Map(list, func(m model.VoiceModel, _ int) dto.ModelResponse { return dto.NewModelResponse(m) }),
			Count:   len(list),
		})
	}

	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no models found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tTYPE\tPATH")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.DisplayName(), m.DisplayStatus(), m.DisplayType(), m.Path)
	}
	return tw.Flush()
}

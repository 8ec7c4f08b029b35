package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "colcalc 0.1.0"

func init() {
	colcalcCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of Colcalc",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version)
			},
		})
}

// tagsplice edits byte ranges of a file in place: it can replace a range
// with new bytes of a different length, remove a range, or dump a range.
// It is a thin operational front end over the stream package.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "tagsplice",
		Short:         "Splice byte ranges of a file in place",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	}

	root.AddCommand(insertCmd(), removeCmd(), infoCmd())

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func removeCmd() *cobra.Command {
	var (
		at     int64
		length int64
	)

	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Remove a byte range, shrinking the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if length <= 0 {
				return fmt.Errorf("--length must be positive")
			}

			s, err := openForWrite(args[0])
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); cerr != nil {
					log.Error(cerr)
				}
			}()

			before := s.Length()
			log.Debugf("removing %d bytes at %d", length, at)
			s.RemoveBlock(at, length)
			log.Infof("%s: %d -> %d bytes", args[0], before, s.Length())
			return nil
		},
	}

	cmd.Flags().Int64Var(&at, "at", 0, "offset of the range to remove")
	cmd.Flags().Int64Var(&length, "length", 0, "number of bytes to remove")

	return cmd
}

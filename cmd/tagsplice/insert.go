package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TatwiraT/taglib/stream"
)

// openForWrite opens path through the stream package and fails hard when
// the fail-soft library could not get a writable handle.
func openForWrite(path string) (*stream.Stream, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", path, err)
	}
	s := stream.Open(abs)
	if !s.IsOpen() {
		return nil, fmt.Errorf("could not open %q", path)
	}
	if s.ReadOnly() {
		_ = s.Close()
		return nil, fmt.Errorf("%q is not writable", path)
	}
	return s, nil
}

func insertCmd() *cobra.Command {
	var (
		at       int64
		replace  int64
		data     string
		dataFile string
	)

	cmd := &cobra.Command{
		Use:   "insert FILE",
		Short: "Replace a byte range with new bytes, growing or shrinking the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data != "" && dataFile != "" {
				return fmt.Errorf("--data and --data-file are mutually exclusive")
			}

			payload := []byte(data)
			if dataFile != "" {
				var err error
				payload, err = os.ReadFile(dataFile)
				if err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
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
			log.Debugf("inserting %d bytes at %d, replacing %d", len(payload), at, replace)
			s.Insert(payload, at, replace)
			log.Infof("%s: %d -> %d bytes", args[0], before, s.Length())
			return nil
		},
	}

	cmd.Flags().Int64Var(&at, "at", 0, "offset of the range to replace")
	cmd.Flags().Int64Var(&replace, "replace", 0, "number of bytes to replace")
	cmd.Flags().StringVar(&data, "data", "", "replacement bytes as a literal string")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "file containing the replacement bytes")

	return cmd
}

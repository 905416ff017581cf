package main

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TatwiraT/taglib/stream"
)

func infoCmd() *cobra.Command {
	var (
		at     int64
		length int
	)

	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show the file length and optionally hex-dump a byte range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[0], err)
			}

			s := stream.Open(abs, stream.WithReadOnly())
			if !s.IsOpen() {
				return fmt.Errorf("could not open %q", args[0])
			}
			defer func() { _ = s.Close() }()

			fmt.Printf("%s: %d bytes (chunk size %d)\n", args[0], s.Length(), s.BufferSize())

			if length > 0 {
				s.Seek(at, stream.Beginning)
				block := s.ReadBlock(length)
				fmt.Printf("%d bytes at offset %d:\n%s", len(block), at, hex.Dump(block))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&at, "at", 0, "offset of the range to dump")
	cmd.Flags().IntVar(&length, "length", 0, "number of bytes to dump")

	return cmd
}

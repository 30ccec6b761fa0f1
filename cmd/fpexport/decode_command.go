package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fpexport/internal/export"
)

// maxEncodedLine bounds a single base64 line read from stdin.
const maxEncodedLine = 64 << 20

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "decode [encoded_line...]",
		Short:       "Turn base64 export lines back into JSON",
		Long:        "Decode lines produced by `fpexport tojson --base64`. Lines are read from the arguments, or from stdin when none are given.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, arg := range args {
					if err := decodeLine(out, arg); err != nil {
						return err
					}
				}
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), maxEncodedLine)
			for lineNo := 1; scanner.Scan(); lineNo++ {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if err := decodeLine(out, line); err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			return nil
		},
	}
}

func decodeLine(out io.Writer, line string) error {
	doc, err := export.Decode(line)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, doc+"\n")
	return err
}

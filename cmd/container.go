// Copyright 2026 Chris Waring
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwaring/ucan-inspector/internal/container"
	"github.com/cwaring/ucan-inspector/internal/format"
)

var containerCmd = &cobra.Command{
	Use:   "container [input]",
	Short: "Parse a ctn-v1 container without analysing its tokens",
	Long:  "Strictly parses a UCAN container: header byte, encoding, compression, token count, and canonicality diagnostics. Fails on any spec violation instead of falling back to token analysis.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runContainer,
}

func init() {
	rootCmd.AddCommand(containerCmd)
}

func runContainer(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	raw, err := format.ReadInput(input)
	if err != nil {
		return err
	}

	res, err := container.ParseString(raw)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := map[string]any{
			"header":      res.Header,
			"tokenCount":  len(res.Tokens),
			"diagnostics": res.Diagnostics,
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	fmt.Printf("Header:      %q (%s, %s)\n", string(res.Header.Byte), res.Header.Encoding, res.Header.Compression)
	fmt.Printf("Tokens:      %d\n", len(res.Tokens))
	for _, d := range res.Diagnostics {
		fmt.Printf("%s %s: %s\n", d.Level, d.Code, d.Message)
	}
	return nil
}

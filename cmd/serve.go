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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwaring/ucan-inspector/internal/format"
	"github.com/cwaring/ucan-inspector/internal/web"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve [input]",
	Short: "Start a local web UI for inspecting UCAN tokens",
	Long:  "Starts a local HTTP server with a web UI for decoding UCAN tokens and containers. Optionally pass a token or container to pre-fill the input.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	var prefill string
	if len(args) > 0 {
		raw, err := format.ReadInput(args[0])
		if err != nil {
			return err
		}
		prefill = raw
	}

	fmt.Printf("Starting UCAN Inspector Web UI at http://localhost:%d\n", port)
	return web.ListenAndServe(port, prefill)
}

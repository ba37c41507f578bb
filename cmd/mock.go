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
	"github.com/cwaring/ucan-inspector/internal/mock"
)

var (
	mockKind   string
	mockHeader string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Generate signed sample UCAN tokens and containers",
	Long:  "Generates ephemeral-key-signed sample tokens for exercising the inspector: a delegation, an invocation proving against it, or a full ctn-v1 container in any of the text-safe encodings.",
	RunE:  runMock,
}

func init() {
	mockCmd.Flags().StringVar(&mockKind, "kind", "container", "What to generate: container, delegation, invocation")
	mockCmd.Flags().StringVar(&mockHeader, "header", "C", "Container header byte: B, C, O, or P")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	switch mockKind {
	case "container":
		if len(mockHeader) != 1 {
			return fmt.Errorf("--header must be a single byte, got %q", mockHeader)
		}
		sample, err := mock.SampleContainer(mockHeader[0])
		if err != nil {
			return err
		}
		fmt.Println(string(sample))

	case "delegation":
		dlg, _, err := mock.Delegation(mock.DelegationOpts{})
		if err != nil {
			return err
		}
		fmt.Println(format.EncodeBase64Std(dlg))

	case "invocation":
		_, inv, err := mock.DelegationChain()
		if err != nil {
			return err
		}
		fmt.Println(format.EncodeBase64Std(inv))

	default:
		return fmt.Errorf("unknown kind %q (use container, delegation, or invocation)", mockKind)
	}
	return nil
}

// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/cribo-go/cribo/pkg/cribo/bundle"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// bundleCmd drives pkg/cribo/bundle.Bundle over a fixture file. It exists to
// give the core pipeline a runnable driver and integration-test harness in
// the absence of a real Python source parser and semantic analyzer.
var bundleCmd = &cobra.Command{
	Use:   "bundle [flags] fixture_file",
	Short: "bundle a fixture-described module set into a single synthetic module.",
	Long: `Read a JSON fixture describing a small first-party module graph (name,
content hash, dependency edges, side-effect flags and a tiny embedded
statement tree per module) and run it through the bundle assembly and
AST-rewriting pipeline, printing the resulting synthetic module's debug dump
or reporting accumulated bundle errors.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		fixture := loadFixture(args[0])
		params := buildParams(fixture)
		params.Logger = log.WithField("cmd", "bundle")

		result, errs := bundle.Bundle(params)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e.Error())
			}

			os.Exit(1)
		}

		fmt.Println(result.Dump())
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}

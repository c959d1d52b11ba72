// Copyright © Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Command datamover is a thin demonstration entrypoint over
// internal/engine: it wires cobra flags into an engine.Options and
// runs a single index or list traversal to completion. Config
// *loading* (files, env vars) is out of scope; every value here comes
// from an explicit flag.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/datamover/engine/internal/engine"
	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/taskengine"
	"github.com/spf13/cobra"
)

var opts engine.Options

var (
	flagClientLib  string
	flagDownstream string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "datamover",
	Short: "Parallel data-mover between a POSIX filesystem and an S3-compatible object store",
}

func init() {
	rootCmd.PersistentFlags().IntVar(&opts.Workers, "workers", 4, "number of symmetric task-engine workers")
	rootCmd.PersistentFlags().IntVar(&opts.MaxIndexSize, "max-index-size", 1000, "max files per IndexDataBatch")
	rootCmd.PersistentFlags().StringVar(&opts.S3Config.Bucket, "bucket", "bucket", "object-store bucket")
	rootCmd.PersistentFlags().StringVar(&flagClientLib, "client-lib", "minio", "object-store backend: minio | dss_client")
	rootCmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "127.0.0.1:9000", "object-store endpoint")
	rootCmd.PersistentFlags().StringVar(&opts.AccessKey, "access-key", "", "object-store access key")
	rootCmd.PersistentFlags().StringVar(&opts.SecretKey, "secret-key", "", "object-store secret key")
	rootCmd.PersistentFlags().BoolVar(&opts.Secure, "secure", false, "use TLS against the object-store endpoint")
	rootCmd.PersistentFlags().StringVar(&flagDownstream, "downstream", "put", "operation applied to each emitted batch: put | get | del")
	rootCmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "exercise I/O without mutating the object store")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "none | error | warning | info | debug")

	rootCmd.AddCommand(indexCmd, listCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Recursively index a directory tree and drive it through the downstream operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.Operation = taskengine.EOperation.Index()
		opts.Dir = args[0]
		return runEngine(cmd.Context())
	},
}

var listCmd = &cobra.Command{
	Use:   "list <prefix>",
	Short: "Recursively list an object-store prefix tree and drive it through the downstream operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.Operation = taskengine.EOperation.List()
		opts.Prefix = args[0]
		return runEngine(cmd.Context())
	},
}

func init() {
	listCmd.Flags().StringVar(&opts.PrefixIndexPath, "prefix-index-data", "", "path to the prefix_index_data JSON document (required)")
	listCmd.Flags().StringVar(&opts.DestPath, "dest-path", "", "destination root for a get downstream operation")
}

func runEngine(ctx context.Context) error {
	var clientLib taskengine.ClientLib
	if err := clientLib.Parse(flagClientLib); err != nil {
		return fmt.Errorf("--client-lib: %w", err)
	}
	opts.S3Config.ClientLib = clientLib

	var level logging.LogLevel
	if err := level.Parse(flagLogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	opts.LogLevel = level
	opts.LogWriter = os.Stderr

	switch flagDownstream {
	case "get":
		opts.DownstreamOp = taskengine.EOperation.Get()
	case "del":
		opts.DownstreamOp = taskengine.EOperation.Del()
	default:
		opts.DownstreamOp = taskengine.EOperation.Put()
	}

	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return eng.Run(ctx)
}

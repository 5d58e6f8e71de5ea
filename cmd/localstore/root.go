/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suparena/localstore"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/provider/bolt"
	"github.com/suparena/localstore/provider/dirstore"
	"github.com/suparena/localstore/provider/kv"
	"github.com/suparena/localstore/provider/sqlite"
)

var (
	rootCmd = &cobra.Command{
		Use:   "localstore",
		Short: "inspect localstore data",
		Long: fmt.Sprintf(`localstore (v%s)

Inspection tool for localstore namespaces. Configuration can be set via
command line flags or environment variables in the form LOCALSTORE_<flag>
(e.g. LOCALSTORE_DATA_DIR=/var/lib/myapp).`, localstore.Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of localstore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("localstore v%s\n", localstore.Version)
		},
	}

	collectionsCmd = &cobra.Command{
		Use:   "collections",
		Short: "List the collections in a namespace with their record counts",
		RunE:  runCollections,
	}

	dumpCmd = &cobra.Command{
		Use:   "dump <label>",
		Short: "Print every record of a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().String("backend", "sqlite", "storage backend to open (kv, dir, bolt, sqlite)")
	rootCmd.PersistentFlags().String("data-dir", "data", "directory holding the backend's files")
	rootCmd.PersistentFlags().String("namespace", "default", "namespace to open")
}

func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("localstore")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// openStore builds the configured provider and initializes a store over it.
// The returned closer releases backend file handles where the backend holds
// any.
func openStore(cmd *cobra.Command) (*localstore.Store, func(), error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return nil, nil, err
	}

	dataDir := viper.GetString("data-dir")
	namespace := viper.GetString("namespace")

	var (
		p      provider.Provider
		closer = func() {}
	)
	switch backend := viper.GetString("backend"); backend {
	case "kv":
		p = kv.New(kv.NewMemory())
	case "dir":
		p = dirstore.New(dataDir)
	case "bolt":
		b := bolt.New(dataDir)
		p = b
		closer = func() { _ = b.Close() }
	case "sqlite":
		s := sqlite.New(dataDir)
		p = s
		closer = func() { _ = s.Close() }
	default:
		return nil, nil, fmt.Errorf("invalid backend %s (expected one of: kv, dir, bolt, sqlite)", backend)
	}

	store := localstore.New(p, namespace)
	if err := store.Init(cmd.Context()); err != nil {
		closer()
		return nil, nil, err
	}
	return store, closer, nil
}

func runCollections(cmd *cobra.Command, _ []string) error {
	store, closer, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closer()

	collections := store.Collections()
	labels := make([]string, 0, len(collections))
	for label := range collections {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Printf("%s\t%v\n", label, collections[label])
	}
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closer()

	seq, err := store.All(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(seq.ToSlice())
}

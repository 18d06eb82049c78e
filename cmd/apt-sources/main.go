// Command apt-sources converts APT source lists from the one-line format to
// the deb822 format.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/etnz/apt-sources/keyring"
	"github.com/etnz/apt-sources/sources"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the apt-sources CLI.
var rootCmd = &cobra.Command{
	Use:   "apt-sources",
	Short: "Convert APT source lists from one-line to deb822 format",
	Long: `apt-sources converts APT source entries written in the legacy one-line
format into the deb822 format used by .sources files.

One-line format:

  deb [arch=amd64] http://example.com/ubuntu jammy main contrib

deb822 format:

  Types: deb
  URIs: http://example.com/ubuntu
  Suites: jammy
  Components: main contrib
  Architectures: amd64

Options in brackets become fields (arch becomes Architectures, signed-by
becomes Signed-By, ...). Comment lines are kept, and lines that cannot be
parsed are replaced by a comment.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./apt-sources.yaml or ~/.config/apt-sources/apt-sources.yaml)")
	pf.Bool("embed-keys", false, "embed the keyring referenced by signed-by as an armored key block")
	pf.String("root", "/", "directory keyring paths are resolved against")
	pf.StringSlice("keyring-deb", nil, "keyring .deb package searched for keyrings (repeatable)")
	pf.BoolP("verbose", "v", false, "log conversion events to stderr")

	for _, key := range []string{"embed-keys", "root", "keyring-deb", "verbose"} {
		viper.BindPFlag(key, pf.Lookup(key))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// readConfig loads cfgFile into v, or apt-sources.yaml from the working
// directory or ~/.config/apt-sources when cfgFile is empty. Only an
// explicit config file is required to exist.
func readConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("apt-sources")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "apt-sources"))
		}
	}

	v.SetEnvPrefix("APT_SOURCES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if v.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
	return nil
}

// keyOptions configures Signed-By key embedding.
type keyOptions struct {
	Embed bool
	Root  string
	Debs  []string
}

func keyOptionsFromConfig() keyOptions {
	return keyOptions{
		Embed: viper.GetBool("embed-keys"),
		Root:  viper.GetString("root"),
		Debs:  viper.GetStringSlice("keyring-deb"),
	}
}

// newConverter builds the converter shared by all subcommands. Events are
// logged when verbose is set.
func newConverter(ko keyOptions, verbose bool) *sources.Converter {
	c := &sources.Converter{}
	if ko.Embed {
		c.Keys = &keyring.Resolver{Root: ko.Root, Debs: ko.Debs}
	}
	if verbose {
		c.Listener = func(e fmt.Stringer) { log.Println(e) }
	}
	return c
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

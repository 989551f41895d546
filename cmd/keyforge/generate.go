package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aledsdavies/keyforge/internal/bigint256"
	"github.com/aledsdavies/keyforge/internal/driver"
	"github.com/aledsdavies/keyforge/internal/keyring"
	"github.com/aledsdavies/keyforge/internal/redact"
	"github.com/aledsdavies/keyforge/internal/secretbuf"
	"github.com/aledsdavies/keyforge/internal/siteconfig"
	"github.com/aledsdavies/keyforge/internal/version"
	"github.com/aledsdavies/keyforge/internal/words"
)

const keyringService = "keyforge"

type generateFlags struct {
	schema     string
	increment  uint64
	username   string
	wordsPath  string
	configPath string
	cachePath  string
	useKeyring bool
	verbose    bool
}

func newRootCommand(scrubber *redact.Scrubber) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:           "keyforge <site>",
		Short:         "Deterministically generate a site password from a seed",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], flags, scrubber)
		},
	}

	cmd.Flags().StringVarP(&flags.schema, "schema", "s", "", "override the site's configured schema")
	cmd.Flags().Uint64Var(&flags.increment, "increment", 0, "password generation number, for rotating a site's password")
	cmd.Flags().StringVar(&flags.username, "username", "", "username to inject into the canonical URL before salting")
	cmd.Flags().StringVar(&flags.wordsPath, "words-path", "", "path to a custom word list (one word per line)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a site configuration file")
	cmd.Flags().StringVar(&flags.cachePath, "cache-path", "", "directory to cache schema cardinalities in across runs")
	cmd.Flags().BoolVarP(&flags.useKeyring, "keyring", "k", false, "read/store the seed via the keyring seam (in-memory, process lifetime only: the seed is still prompted every run)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "report the schema's cardinality and bits of entropy")

	return cmd
}

func runGenerate(cmd *cobra.Command, siteArg string, flags generateFlags, scrubber *redact.Scrubber) error {
	site, schema, username, increment, err := resolveSite(siteArg, flags)
	if err != nil {
		return err
	}

	wordList := words.Default()
	if flags.wordsPath != "" {
		f, err := os.Open(flags.wordsPath)
		if err != nil {
			return fmt.Errorf("opening word list: %w", err)
		}
		defer f.Close()
		wordList, err = words.Load(f)
		if err != nil {
			return fmt.Errorf("loading word list: %w", err)
		}
	}

	seed, err := acquireSeed(site, flags.useKeyring)
	if err != nil {
		return err
	}
	defer seed.Wipe()
	scrubber.RegisterSecret(seed.Bytes())

	result, err := driver.Generate(driver.Request{
		Seed:      seed,
		Site:      site,
		Username:  username,
		Increment: increment,
		Schema:    schema,
		Words:     wordList,
		CachePath: flags.cachePath,
	})
	if err != nil {
		return err
	}
	defer result.Password.Wipe()

	if flags.verbose {
		bits := bitsOfEntropy(result.Cardinality)
		fmt.Fprintf(scrubber, "keyforge %s\n", version.Current)
		fmt.Fprintf(scrubber, "cardinality: %s (~%.2f bits)\n", result.Cardinality.String(), bits)
	}

	_, err = fmt.Fprintln(os.Stdout, string(result.Password.Bytes()))
	return err
}

// resolveSite looks up siteArg in the optional config file, applying
// CLI flag overrides on top of whatever the config entry (or the
// synthesized fallback) provides.
func resolveSite(siteArg string, flags generateFlags) (site, schema, username string, increment uint64, err error) {
	site = siteArg
	if flags.configPath == "" {
		schema = flags.schema
		username = flags.username
		increment = flags.increment
		if schema == "" {
			return "", "", "", 0, fmt.Errorf("no --schema given and no --config file to supply a default")
		}
		return site, schema, username, increment, nil
	}

	cfg, err := siteconfig.Load(flags.configPath)
	if err != nil {
		return "", "", "", 0, err
	}
	entry, found := cfg.Lookup(siteArg)
	if !found {
		if suggestions := cfg.Suggest(siteArg, 3); len(suggestions) > 0 {
			fmt.Fprintf(os.Stderr, "no configured site matches %q; did you mean: %v?\n", siteArg, suggestions)
		}
	}

	schema = cfg.EffectiveSchema(entry)
	if flags.schema != "" {
		schema = flags.schema
	}
	username = entry.Username
	if flags.username != "" {
		username = flags.username
	}
	increment = entry.Increment
	if flags.increment != 0 {
		increment = flags.increment
	}
	if entry.Host != "" {
		site = entry.Host
	}
	if schema == "" {
		return "", "", "", 0, fmt.Errorf("no schema configured for %q and no --schema override given", siteArg)
	}
	return site, schema, username, increment, nil
}

// acquireSeed reads the master seed from the keyring when requested,
// falling back to an interactive terminal prompt (spec.md §6's
// use_keyring contract). keyring.Memory has process lifetime only —
// a real OS-keychain Keyring is the out-of-scope seam spec.md §6
// describes; -k here exercises the same call shape a real
// implementation would receive, without persisting anything to disk.
func acquireSeed(site string, useKeyring bool) (*secretbuf.Buffer, error) {
	kr := keyring.NewMemory()
	if useKeyring {
		if seed, ok := kr.Get(keyringService, site); ok {
			return secretbuf.New(seed), nil
		}
	}

	seed, err := promptSeed()
	if err != nil {
		return nil, err
	}

	if useKeyring {
		if err := kr.Set(keyringService, site, seed.Bytes()); err != nil {
			seed.Wipe()
			return nil, err
		}
	}
	return seed, nil
}

func promptSeed() (*secretbuf.Buffer, error) {
	fmt.Fprint(os.Stderr, "Seed: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("seed must not be empty")
	}
	return secretbuf.New(raw), nil
}

func bitsOfEntropy(n bigint256.Int) float64 {
	bits := n.BitLen()
	if bits == 0 {
		return 0
	}
	// BitLen overstates by up to ~1 bit versus log2(n) for non-power-of-two
	// n; close enough for a --verbose estimate, not used for any security
	// decision.
	return float64(bits - 1)
}

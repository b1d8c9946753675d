package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jrschumacher/jwt-debugger/internal/config"
	"github.com/jrschumacher/jwt-debugger/internal/decoder"
	"github.com/jrschumacher/jwt-debugger/internal/keys"
	"github.com/jrschumacher/jwt-debugger/internal/logger"
	"github.com/jrschumacher/jwt-debugger/internal/oidc"
	"github.com/jrschumacher/jwt-debugger/internal/render"
	"github.com/jrschumacher/jwt-debugger/internal/validation"
	"github.com/spf13/cobra"
)

const malformedTokenMessage = "Token must consist of a header, payload, and signature all separated by periods."

var cfg *config.Config

type decodeOptions struct {
	publicKey       string
	oidcProviderURL string
	format          string
}

func newRootCmd() *cobra.Command {
	opts := &decodeOptions{}
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "jwt-debugger [TOKEN]",
		Short: "Decode and verify JSON Web Tokens",
		Long: `jwt-debugger decodes a JSON Web Token and, given a public key or an
OpenID Connect provider, verifies its signature.

The token is read from stdin when no argument is given.`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, args, opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.publicKey, "public-key", "", "JSON Web Key in JSON or PEM format for signature verification")
	rootCmd.Flags().StringVar(&opts.oidcProviderURL, "oidc-provider-url", "", "OpenID Connect Provider URL where the JSON Web Key Set can be pulled for signature verification")
	rootCmd.Flags().StringVar(&opts.format, "format", cfg.OutputFormat, "Output format (pretty, json)")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is ./jwt-debugger.yaml or $HOME/.config/jwt-debugger/jwt-debugger.yaml)")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if configFile == "" {
			return nil
		}
		c, err := config.LoadFile(configFile)
		if err != nil {
			return asUsageError(err)
		}
		cfg = c
		logger.Init(cfg.LogLevel, cfg.LogFormat)
		if !rootCmd.Flags().Changed("format") {
			opts.format = cfg.OutputFormat
		}
		logger.Debug("Loaded config file", "path", configFile)
		return nil
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return asUsageError(err)
	})

	rootCmd.AddCommand(newToolboxCmd())
	return rootCmd
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return asUsageError(fn(cmd, args))
	}
}

func runDecode(cmd *cobra.Command, args []string, opts *decodeOptions) error {
	token, err := readToken(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	dv := &validation.DecodeValidation{
		PublicKeyPath:   opts.publicKey,
		OIDCProviderURL: opts.oidcProviderURL,
		Format:          opts.format,
	}
	if err := dv.Validate(); err != nil {
		return asUsageError(err)
	}

	if _, err := decoder.Split(token); err != nil {
		if errors.Is(err, decoder.ErrSegmentCount) {
			return newUsageError(malformedTokenMessage)
		}
		return asUsageError(err)
	}

	material, err := loadMaterial(cmd.Context(), opts)
	if err != nil {
		return err
	}

	decoded, err := decoder.Decode(token, material)
	if err != nil {
		return asUsageError(err)
	}
	logger.Info("Decoded token", "verification", decoded.Verification.String())

	printer := render.NewPrinter(opts.format, cmd.OutOrStdout())
	if err := printer.PrintDecodedToken(decoded); err != nil {
		return err
	}

	if decoded.Verification == decoder.NotVerified {
		return errInvalidSignature
	}
	return nil
}

func readToken(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	buf, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	return strings.TrimSpace(string(buf)), nil
}

// loadMaterial returns nil when no key source was given.
func loadMaterial(ctx context.Context, opts *decodeOptions) (keys.Material, error) {
	switch {
	case opts.publicKey != "":
		data, err := os.ReadFile(opts.publicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key: %w", err)
		}
		key, err := keys.LoadKey(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load public key %s: %w", opts.publicKey, err)
		}
		return key, nil

	case opts.oidcProviderURL != "":
		resolver := oidc.NewResolver(oidc.NewHTTPClient(cfg.HTTPTimeout, cfg.HTTPRetries))
		jwksURI, err := resolver.ResolveJWKSURI(ctx, opts.oidcProviderURL)
		if err != nil {
			return nil, err
		}
		logger.Debug("Resolved JWKS URI", "provider", opts.oidcProviderURL, "jwks_uri", jwksURI)
		set, err := resolver.FetchKeySet(ctx, jwksURI)
		if err != nil {
			return nil, err
		}
		return set, nil
	}
	return nil, nil
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, c *config.Config, args []string, in io.Reader, out, errOut io.Writer) int {
	cfg = c

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := rootCmd.ExecuteContext(ctx)

	var ue *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errInvalidSignature):
		return ExitFailure
	case errors.As(err, &ue):
		fmt.Fprintf(errOut, "Error: %s\n", ue.Error())
		return ExitUsage
	default:
		logger.Error("CLI error", "error", err)
		return ExitFailure
	}
}

// Execute runs the CLI against the process arguments and exits.
func Execute(c *config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, c, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

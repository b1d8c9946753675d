package cmd

import (
	"fmt"
	"os"

	"github.com/jrschumacher/jwt-debugger/internal/keys"
	"github.com/jrschumacher/jwt-debugger/internal/logger"
	"github.com/jrschumacher/jwt-debugger/internal/render"
	"github.com/jrschumacher/jwt-debugger/internal/validation"
	"github.com/spf13/cobra"
)

func newToolboxCmd() *cobra.Command {
	toolboxCmd := &cobra.Command{
		Use:     "toolbox",
		Aliases: []string{"tools"},
		Short:   "Key and token utilities for testing",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	toolboxCmd.AddCommand(
		newCreatePrivateJWKCmd(),
		newCreatePrivateJWKSetCmd(),
		newExportPublicJWKCmd(),
		newExportPublicJWKSetCmd(),
		newCreateTokenCmd(),
	)
	return toolboxCmd
}

func newCreatePrivateJWKCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "create-private-jwk",
		Short: "Creates a private JSON Web Key",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.OneOf(format, "format", "json", "pem"); err != nil {
				return asUsageError(validation.Errors{*err})
			}

			key, err := keys.GenerateRSA()
			if err != nil {
				return err
			}
			logger.Debug("Generated private key", "alg", key.JWK().Algorithm().String())

			if format == "pem" {
				pemBytes, err := key.PEM()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(pemBytes)
				return err
			}
			return render.NewPrinter(string(render.OutputFormatJSON), cmd.OutOrStdout()).PrintJSON(key.JWK())
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "The output format for the private JSON Web Key (json, pem)")
	return cmd
}

func newCreatePrivateJWKSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-private-jwkset FILE...",
		Short: "Creates a private JSON Web Key Set from JSON Web Keys",
		Long: `Creates a private JSON Web Key Set from JSON or PEM key files.
Every key is given a random UUID as its kid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fv := &validation.FileSuffixValidation{Paths: args, Allowed: []string{".json", ".pem"}}
			if err := fv.Validate(); err != nil {
				return asUsageError(err)
			}

			members := make([]*keys.Key, 0, len(args))
			for _, path := range args {
				key, err := readKeyFile(path)
				if err != nil {
					return err
				}
				kid, err := key.AssignKeyID()
				if err != nil {
					return err
				}
				logger.Debug("Imported key", "path", path, "kid", kid)
				members = append(members, key)
			}

			set, err := keys.NewKeySetOf(members...)
			if err != nil {
				return err
			}
			return render.NewPrinter(string(render.OutputFormatJSON), cmd.OutOrStdout()).PrintJSON(set.Set())
		},
	}
}

func newExportPublicJWKCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-public-jwk FILE",
		Short: "Exports the public key from a JSON or PEM JSON Web Key",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			fv := &validation.FileSuffixValidation{Paths: args, Allowed: []string{".json", ".pem"}}
			if err := fv.Validate(); err != nil {
				return asUsageError(err)
			}

			key, err := readKeyFile(args[0])
			if err != nil {
				return err
			}
			pub, err := key.Public()
			if err != nil {
				return err
			}
			return render.NewPrinter(string(render.OutputFormatJSON), cmd.OutOrStdout()).PrintJSON(pub.JWK())
		},
	}
}

func newExportPublicJWKSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-public-jwkset FILE",
		Short: "Exports the public keys from a JSON Web Key Set",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			fv := &validation.FileSuffixValidation{Paths: args, Allowed: []string{".json"}}
			if err := fv.Validate(); err != nil {
				return asUsageError(err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read key set: %w", err)
			}
			set, err := keys.LoadKeySet(data)
			if err != nil {
				return fmt.Errorf("failed to load key set %s: %w", args[0], err)
			}
			pub, err := set.Public()
			if err != nil {
				return err
			}
			return render.NewPrinter(string(render.OutputFormatJSON), cmd.OutOrStdout()).PrintJSON(pub.Set())
		},
	}
}

func newCreateTokenCmd() *cobra.Command {
	tv := &validation.TokenCreationValidation{}

	cmd := &cobra.Command{
		Use:   "create-token",
		Short: "Creates a signed token from a private JSON Web Key and a JSON payload",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tv.Validate(); err != nil {
				return asUsageError(err)
			}

			key, err := readKeyFile(tv.PrivateKeyPath)
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(tv.PayloadPath)
			if err != nil {
				return fmt.Errorf("failed to read payload: %w", err)
			}

			token, err := key.Sign(payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Token: %s\n", token)
			return err
		},
	}

	cmd.Flags().StringVar(&tv.PrivateKeyPath, "private-key", "", "Private JSON Web Key file (JSON or PEM) carrying an alg")
	cmd.Flags().StringVar(&tv.PayloadPath, "payload", "", "JSON file holding the token claims")
	return cmd
}

func readKeyFile(path string) (*keys.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	key, err := keys.LoadKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load key %s: %w", path, err)
	}
	return key, nil
}

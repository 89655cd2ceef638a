package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omnidev/manifold"
)

func newGetCmd() *cobra.Command {
	var repository string

	cmd := &cobra.Command{
		Use:   "get <tag>",
		Short: "Fetch the artifact a tag points at and print its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := manifold.New(endpoint(), viper.GetString("token"),
				manifold.WithLogger(newLogger()))

			artifact, err := client.Fetch(cmd.Context(), viper.GetString("namespace"), repository, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), artifact.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&repository, "repository", manifold.RepositoryPersonas, "repository to fetch from")
	return cmd
}

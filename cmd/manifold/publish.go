package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omnidev/manifold"
	"github.com/omnidev/manifold/source"
)

func newPublishCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "publish <persona-id>",
		Short: "Publish a persona, tagging it with its ID",
		Long: `Publish reads <persona-id>.json from the local persona directory and
pushes it into the personas repository of the configured namespace. The
persona ID becomes the tag name, so republishing the same ID moves the
tag to the new content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			content, err := source.NewStore(dir).Load(id)
			if err != nil {
				return err
			}

			client := manifold.New(endpoint(), viper.GetString("token"),
				manifold.WithLogger(newLogger()))

			result, err := client.Publish(cmd.Context(), manifold.PublishRequest{
				Namespace:    viper.GetString("namespace"),
				Repository:   manifold.RepositoryPersonas,
				ArtifactType: manifold.ArtifactTypePersona,
				MediaType:    manifold.MediaTypePersona,
				Name:         id,
				Content:      content,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d bytes) as %s/%s:%s\n",
				result.Digest, result.Size, viper.GetString("namespace"),
				manifold.RepositoryPersonas, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", defaultPersonaDir(), "directory containing <id>.json persona files")
	return cmd
}

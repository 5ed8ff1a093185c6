package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST backend",
	Long: "Serves sessions, recommendations, materials, practice questions, achievements and\n" +
		"stats over HTTP so other clients (or `studydesk --server`) can share this database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if remote, _ := cmd.Flags().GetString("server"); remote != "" {
			return errors.New("--server cannot be combined with serve")
		}
		ctx := cmd.Context()
		d, err := buildDeps(ctx, cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		addr, _ := cmd.Flags().GetString("addr")
		origins, _ := cmd.Flags().GetStringSlice("allow-origin")

		srv := server.New(server.Config{
			Sessions:     d.Store.SessionRepo(),
			Recommender:  d.Recommender,
			Materials:    d.Materials,
			Generator:    d.Generator,
			Achievements: d.Achievements,
			Analytics:    d.Analytics,
			AllowOrigins: origins,
		})

		fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
		if len(origins) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "CORS origins: %s\n", strings.Join(origins, ", "))
		}
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	serveCmd.Flags().StringSlice("allow-origin", nil, "Allowed CORS origin (repeatable; default any)")
}

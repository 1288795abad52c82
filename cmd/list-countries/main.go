package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"olymp-registration-backend/config"
	"olymp-registration-backend/services"

	"github.com/spf13/cobra"
)

var (
	outputJSON bool
	locale     string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "list-countries",
	Short: "Affiche l'annuaire des pays de l'API olympiade",
	Long: `Interroge l'API olympiade configurée (API_BASE_URL et identifiants)
et affiche tous les pays, pages agrégées et triés par nom.

Exemples:
  list-countries
  list-countries --json | jq '.[].name'
  list-countries --locale ru`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("locale") {
			locale = cfg.CountriesLocale
		}

		upstream := services.NewUpstreamClient(cfg)
		directory := services.NewCountryDirectory(upstream, cfg.CountriesURL(), locale, 0)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		countries, err := directory.FetchCountries(ctx)
		if err != nil {
			return fmt.Errorf("impossible de charger les pays: %w", err)
		}

		if outputJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(countries)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNOM\tCODE")
		for _, c := range countries {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Code)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d pays (auth: %s)\n", len(countries), cfg.AuthScheme())
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&outputJSON, "json", false, "Sortie JSON")
	rootCmd.Flags().StringVarP(&locale, "locale", "l", "en", "Locale de tri des noms (ex: en, fr, ru)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Durée maximale pour lire toutes les pages")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

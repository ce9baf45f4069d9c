package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"intranet-portal-backend/pkg/models"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Provision and inspect the space matrix",
}

var (
	spaceBusinessKey string
	spaceLanguage    string
	spaceName        string
	spaceDescription string
	spaceInactive    bool
)

var spaceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a (business key, language) space",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(spaceBusinessKey) == "" || strings.TrimSpace(spaceLanguage) == "" {
			return fmt.Errorf("--business-key and --language are required")
		}
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		sp := &models.Space{
			BusinessKey: spaceBusinessKey,
			Language:    spaceLanguage,
			Name:        spaceName,
			IsActive:    !spaceInactive,
		}
		if sp.Name == "" {
			sp.Name = spaceBusinessKey + " (" + spaceLanguage + ")"
		}
		if spaceDescription != "" {
			sp.Description = &spaceDescription
		}
		if err := db.CreateSpace(cmd.Context(), sp); err != nil {
			return err
		}
		log.Info().Int64("space_id", sp.ID).Str("business_key", sp.BusinessKey).Str("language", sp.Language).Msg("✅ Space created")
		return nil
	},
}

var spaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active spaces as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		spaces, err := db.ListActiveSpaces(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(spaces)
	},
}

func init() {
	spaceAddCmd.Flags().StringVar(&spaceBusinessKey, "business-key", "", "business key")
	spaceAddCmd.Flags().StringVar(&spaceLanguage, "language", "", "language code")
	spaceAddCmd.Flags().StringVar(&spaceName, "name", "", "display name")
	spaceAddCmd.Flags().StringVar(&spaceDescription, "description", "", "description")
	spaceAddCmd.Flags().BoolVar(&spaceInactive, "inactive", false, "create the space disabled")

	spaceCmd.AddCommand(spaceAddCmd)
	spaceCmd.AddCommand(spaceListCmd)
}

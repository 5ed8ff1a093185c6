package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settings.DefaultPath()
		if err != nil {
			return err
		}
		s := settings.Open(path).Get()

		fmt.Println("Settings file:", path)
		fmt.Println(strings.Repeat("─", 72))
		for _, f := range settings.Fields {
			fmt.Printf("%-22s  %-10s  %s\n", f.Key, f.Value(s), f.Help)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settings.DefaultPath()
		if err != nil {
			return err
		}
		st := settings.Open(path)

		// Validate on a copy so a bad value never reaches the file.
		probe := st.Get()
		if err := settings.Set(&probe, args[0], args[1]); err != nil {
			return err
		}
		if err := st.Update(func(s *settings.Settings) { *s = probe }); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}

		f, _ := settings.Lookup(args[0])
		fmt.Printf("%s = %s\n", f.Key, f.Value(st.Get()))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

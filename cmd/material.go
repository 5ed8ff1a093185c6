package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/persist"
)

var materialCmd = &cobra.Command{
	Use:     "material",
	Aliases: []string{"materials"},
	Short:   "Manage study materials",
}

var materialAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Import a text or markdown file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		subject, _ := cmd.Flags().GetString("subject")
		folder, _ := cmd.Flags().GetString("folder")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc := materials.NewService(st.MaterialRepo())

		ctx := cmd.Context()
		folderID := ""
		if folder != "" {
			f, err := findFolder(cmd, svc, folder)
			if err != nil {
				return err
			}
			folderID = f.ID
		}

		f, err := svc.AddFile(ctx, persist.LocalUserID, materials.AddFileInput{
			Path:     args[0],
			Name:     name,
			Subject:  subject,
			FolderID: folderID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s) %s\n", f.Name, f.Subject, f.ID)
		return nil
	},
}

var materialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc := materials.NewService(st.MaterialRepo())

		ctx := cmd.Context()
		files, err := svc.Files(ctx, persist.LocalUserID)
		if err != nil {
			return fmt.Errorf("list materials: %w", err)
		}
		if len(files) == 0 {
			fmt.Println("No materials yet. Add one with: studydesk material add <file>")
			return nil
		}
		folders, err := svc.Folders(ctx, persist.LocalUserID)
		if err != nil {
			return fmt.Errorf("list folders: %w", err)
		}
		folderNames := make(map[string]string, len(folders))
		for _, f := range folders {
			folderNames[f.ID] = f.Name
		}

		fmt.Printf("%-36s  %-28s  %-16s  %-12s  %8s\n", "ID", "Name", "Subject", "Folder", "Chars")
		fmt.Println(strings.Repeat("─", 108))
		for _, f := range files {
			fmt.Printf("%-36s  %-28s  %-16s  %-12s  %8d\n",
				f.ID, truncate(f.Name, 28), truncate(f.Subject, 16), truncate(folderNames[f.FolderID], 12), len(f.Content))
		}
		return nil
	},
}

var materialFolderCmd = &cobra.Command{
	Use:   "folder [name]",
	Short: "Create a folder, or list folders when no name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		svc := materials.NewService(st.MaterialRepo())
		ctx := cmd.Context()

		if len(args) == 1 {
			f, err := svc.CreateFolder(ctx, persist.LocalUserID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created folder %s %s\n", f.Name, f.ID)
			return nil
		}

		folders, err := svc.Folders(ctx, persist.LocalUserID)
		if err != nil {
			return fmt.Errorf("list folders: %w", err)
		}
		if len(folders) == 0 {
			fmt.Println("No folders yet.")
			return nil
		}
		for _, f := range folders {
			fmt.Printf("%-36s  %s\n", f.ID, f.Name)
		}
		return nil
	},
}

var materialRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a file or folder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := materials.NewService(st.MaterialRepo()).Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Removed", args[0])
		return nil
	},
}

// findFolder resolves ref as a folder id or a case-insensitive name.
func findFolder(cmd *cobra.Command, svc *materials.Service, ref string) (materials.Folder, error) {
	folders, err := svc.Folders(cmd.Context(), persist.LocalUserID)
	if err != nil {
		return materials.Folder{}, fmt.Errorf("list folders: %w", err)
	}
	for _, f := range folders {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return materials.Folder{}, fmt.Errorf("%q: %w", ref, materials.ErrFolderNotFound)
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func init() {
	materialAddCmd.Flags().String("name", "", "Display name (default: file name)")
	materialAddCmd.Flags().StringP("subject", "s", "", "Subject (default: General)")
	materialAddCmd.Flags().StringP("folder", "f", "", "Folder id or name")

	materialCmd.AddCommand(materialAddCmd)
	materialCmd.AddCommand(materialListCmd)
	materialCmd.AddCommand(materialFolderCmd)
	materialCmd.AddCommand(materialRemoveCmd)
}

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/infrastructure/persistence/sqlite"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Inspect saved logins",
}

var vaultShowCmd = &cobra.Command{
	Use:   "show <host>",
	Short: "List the usernames saved for a host",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultShow,
}

var vaultForgetCmd = &cobra.Command{
	Use:   "forget <host> <username>",
	Short: "Delete a saved login",
	Args:  cobra.ExactArgs(2),
	RunE:  runVaultForget,
}

func init() {
	rootCmd.AddCommand(vaultCmd)
	vaultCmd.AddCommand(vaultShowCmd, vaultForgetCmd)
}

// openVault opens the credential vault. The caller closes the provider.
func openVault() (repository.CredentialRepository, *sqlite.LazyDB, error) {
	app := GetApp()
	if app == nil {
		return nil, nil, fmt.Errorf("app not initialized")
	}
	dbPath, err := app.Paths.DataFile(sqlite.VaultFileName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve vault: %w", err)
	}
	keyPath, err := app.Paths.DataFile(sqlite.VaultKeyFileName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve vault key: %w", err)
	}
	sealer, err := sqlite.LoadOrCreateSealer(keyPath)
	if err != nil {
		return nil, nil, err
	}
	db := sqlite.NewLazyDB(dbPath)
	return sqlite.NewCredentialRepository(db, sealer), db, nil
}

func runVaultShow(cmd *cobra.Command, args []string) error {
	repo, db, err := openVault()
	if err != nil {
		return err
	}
	defer db.Close()

	creds, err := repo.FindByHost(GetApp().Ctx(), args[0])
	if err != nil {
		return fmt.Errorf("read vault: %w", err)
	}
	if len(creds) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No logins saved for %s.\n", args[0])
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tUPDATED")
	for _, c := range creds {
		fmt.Fprintf(tw, "%s\t%s\n", c.Username, c.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runVaultForget(cmd *cobra.Command, args []string) error {
	repo, db, err := openVault()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Delete(GetApp().Ctx(), args[0], args[1]); err != nil {
		return fmt.Errorf("delete login: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s on %s.\n", args[1], args[0])
	return nil
}

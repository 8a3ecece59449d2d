package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"compscraper/pkg/auth"
	"compscraper/pkg/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored gallery session token",
	Long: `Manage the session token the automation collaborator uses to browse
authenticated gallery pages.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variable (read-only fallback)

Public galleries need no token; these commands are only relevant when the
gallery gates its source views behind a login.`,
}

var loginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store a gallery session token securely",
	Long: `Store a gallery session token in the system keychain or encrypted file.

Copy the session cookie value from a logged-in browser session and paste it
at the prompt; the input is hidden as you type.`,
	Example: `  # Store the default account's token
  compscraper auth login

  # Store a token under a named account
  compscraper auth login staging`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var statusCmd = &cobra.Command{
	Use:   "status [account]",
	Short: "Show whether a session token is stored",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [account]",
	Short: "Remove a stored session token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)
}

func accountName(args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	return auth.DefaultAccountName
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("initializing credential manager: %w", err)
	}

	name := accountName(args)
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Account %q already has a token. Replace it? (y/N): ", name)
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Print("Session token (hidden): ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return errors.New("session token is required")
	}

	if err := manager.Store(&auth.Account{Name: name, SessionToken: token}); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Session token stored for account %q", name))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("initializing credential manager: %w", err)
	}

	name := accountName(args)
	account, err := manager.Retrieve(name)
	if err != nil {
		ui.PrintWarning(fmt.Sprintf("No session token stored for account %q", name))
		return nil
	}

	ui.PrintInfo("Account", account.Name)
	ui.PrintInfo("Token", maskToken(account.SessionToken))
	if !account.LastModified.IsZero() {
		ui.PrintInfo("Stored", account.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("initializing credential manager: %w", err)
	}

	name := accountName(args)
	if err := manager.Delete(name); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning(fmt.Sprintf("No session token stored for account %q", name))
			return nil
		}
		return fmt.Errorf("removing token: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Session token removed for account %q", name))
	return nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

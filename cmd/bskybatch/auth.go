package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bskybatch/pkg/auth"
	"bskybatch/pkg/bluesky"
	"bskybatch/pkg/logger"
	"bskybatch/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Bluesky credentials",
	Long: `Manage stored Bluesky credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (BLUESKY_HANDLE / BLUESKY_APP_PASSWORD)

Use an app password, never your main account password. App passwords
are created at Settings > App Passwords on bsky.app.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [handle]",
	Short: "Store Bluesky credentials securely",
	Long: `Store Bluesky credentials securely in the system keychain or encrypted file.

You will be prompted for:
  - Bluesky handle (if not provided), e.g. alice.bsky.social
  - App password (from Settings > App Passwords)

The credentials are verified against the service before being saved.`,
	Example: `  # Interactive login
  bskybatch auth login

  # Login with handle
  bskybatch auth login alice.bsky.social`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [handle]",
	Short: "Remove stored credentials",
	Long: `Remove stored Bluesky credentials.

If no handle is provided, you will be shown a list of stored accounts
to choose from. You can also remove all accounts at once.`,
	Example: `  # Interactive logout
  bskybatch auth logout

  # Logout specific account
  bskybatch auth logout alice.bsky.social`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Bluesky accounts with the app password masked.`,
	Run:   runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var handle string
	if len(args) > 0 {
		handle = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if handle == "" {
		fmt.Print("Bluesky handle (e.g. alice.bsky.social): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read handle", err.Error())
			os.Exit(1)
		}
		handle = strings.TrimSpace(input)
	}
	handle = strings.TrimPrefix(handle, "@")

	if handle == "" {
		ui.PrintError("Handle is required", "")
		os.Exit(1)
	}

	// Check if account already exists
	if existing, _ := manager.Retrieve(handle); existing != nil {
		fmt.Printf("Account '%s' already exists. Update credentials? (y/N): ", handle)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("App password (hidden as you type): ")
	appPassword, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read app password", err.Error())
		os.Exit(1)
	}

	if appPassword == "" {
		ui.PrintError("App password is required", "")
		os.Exit(1)
	}

	service := serviceURL
	if service == "" {
		service = bluesky.DefaultService
	}

	account := &auth.Account{
		Handle:       handle,
		AppPassword:  appPassword,
		Service:      service,
		LastModified: time.Now(),
	}

	// Verify the credentials before storing them
	fmt.Println("Verifying credentials...")
	if err := testCredentials(account); err != nil {
		ui.PrintError("Login failed", err.Error())
		os.Exit(1)
	}

	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Account saved: " + handle)

	if auth.IsKeyringAvailable() {
		ui.PrintInfo("Storage", "system keychain")
	} else {
		ui.PrintInfo("Storage", "encrypted file")
	}

	fmt.Println("\nRun a batch with:")
	fmt.Println("  bskybatch reacted-users --input feeds.csv --output reacted.csv")
	fmt.Printf("  bskybatch feed-likes --input feeds.csv --output likes.csv --account %s\n", handle)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if len(args) > 0 {
		handle := strings.TrimPrefix(args[0], "@")
		if err := manager.Delete(handle); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + handle)
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No stored accounts found", "")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove account '%s'? (y/N): ", account.Handle)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(account.Handle); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Handle)
		return
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Handle)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return
	case choice == len(accounts)+1:
		fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return
		}
		if err := manager.DeleteAll(); err != nil {
			ui.PrintError("Failed to remove all accounts", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("All accounts removed")
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Handle); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Handle)
	default:
		ui.PrintError("Invalid choice", "")
		os.Exit(1)
	}
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'bskybatch auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Handle: %s\n", i+1, sanitized.Handle)
		fmt.Printf("   App Password: %s\n", sanitized.AppPassword)
		if sanitized.Service != "" {
			fmt.Printf("   Service: %s\n", sanitized.Service)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a password from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// testCredentials verifies the credentials by creating a session
func testCredentials(account *auth.Account) error {
	client := bluesky.NewClient(account.Service, 30*time.Second, logger.GetLogger())
	_, err := client.Login(account.Handle, account.AppPassword)
	return err
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if u, ok := a.store.User(); ok {
		s = fmt.Sprintf("(%s %s)", u.Email, u.Role)
	}
	return s
}

// printNotifications drains the store's feedback queue and renders it, the
// CLI's stand-in for the web app's toast area.
func (a *App) printNotifications() {
	for _, n := range a.store.DrainNotifications() {
		fmt.Printf("[%s] %s\n", n.Type, n.Message)
	}
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to Secure Ballot CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("sb %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			a.printHelp()
		case "login":
			err = a.Login(ctx)
		case "adminlogin":
			err = a.AdminLogin(ctx)
		case "password":
			err = a.PasswordLogin(ctx)
		case "register":
			err = a.Register(ctx)
		case "ussd":
			err = a.USSD(ctx)
		case "forgot":
			err = a.ForgotPassword(ctx)
		case "reset":
			err = a.ResetPassword(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "mfa":
			err = a.MFASetup(ctx)
		case "mfadisable":
			err = a.MFADisable(ctx)
		case "backup":
			err = a.BackupCodes(ctx)
		case "backupverify":
			err = a.BackupVerify(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			return
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}

		if err != nil {
			a.log.Debug(ctx, "command failed", "cmd", cmd, "error", err)
		}
		a.printNotifications()
	}
}

func (a *App) printHelp() {
	if a.isLoggedIn() {
		fmt.Println("Available commands: whoami, refresh, mfa, mfadisable, backup, backupverify, logout, exit")
	} else {
		fmt.Println("Available commands: login, adminlogin, password, register, ussd, forgot, reset, exit")
	}
}

// Command fastdb is the interactive FastDB client.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fastdb-io/fastdb"
	"github.com/fastdb-io/fastdb/protocol"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the client state
type CLI struct {
	conn        net.Conn
	history     []string
	historyFile string
}

func main() {
	var (
		addr     string
		port     int
		user     string
		password string
	)

	root := &cobra.Command{
		Use:          "fastdb",
		Short:        "FastDB interactive client",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			if password == "" {
				var err error
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}
			return run(fmt.Sprintf("%s:%d", addr, port), user, password)
		},
	}
	root.Flags().StringVar(&addr, "addr", fastdb.DefaultHost, "server address")
	root.Flags().IntVar(&port, "port", fastdb.DefaultPort, "server port")
	root.Flags().StringVarP(&user, "user", "u", "", "username")
	root.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func run(addr, user, password string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	cli := &CLI{
		conn:        conn,
		historyFile: getHistoryPath(),
	}
	cli.loadHistory()

	resp, err := cli.send(user + protocol.Separator + password)
	if err != nil {
		return err
	}
	if resp != protocol.AccessGranted {
		return fmt.Errorf("access denied for user %s", user)
	}

	printBanner(addr)
	cli.repl()
	cli.saveHistory()
	return nil
}

// send writes one frame and reads one reply frame.
func (cli *CLI) send(msg string) (string, error) {
	if _, err := cli.conn.Write([]byte(msg)); err != nil {
		return "", fmt.Errorf("connection lost: %w", err)
	}
	buf := make([]byte, protocol.MaxFrame)
	n, err := cli.conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("connection lost: %w", err)
	}
	return string(buf[:n]), nil
}

func printBanner(addr string) {
	fmt.Println()
	fmt.Printf("%s%sFastDB v%s%s connected to %s\n", BoldColor, PromptColor, Version, ResetColor, addr)
	fmt.Println("Type help for commands, quit to exit")
	fmt.Println()
}

func (cli *CLI) repl() {
	reader := bufio.NewReader(os.Stdin)
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			fmt.Printf("%sfastdb>%s ", PromptColor, ResetColor)
		} else {
			fmt.Printf("%s   ...>%s ", PromptColor, ResetColor)
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if buffer.Len() == 0 {
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "":
				continue
			case "quit", "exit":
				cli.send("quit")
				fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
				return
			case "help":
				printHelp()
				continue
			case "history":
				cli.printHistory()
				continue
			case "clear":
				fmt.Print("\033[H\033[2J")
				continue
			}
		}

		buffer.WriteString(line)
		request := strings.TrimSpace(buffer.String())

		// Meta-commands are tagged and sent as-is; plain statements wait
		// until they form one complete statement.
		frame, tagged := protocol.Tag(request)
		if !tagged && !protocol.IsComplete(request) {
			if strings.HasSuffix(request, ";") {
				fmt.Printf("%s✗ Invalid SQL syntax%s\n", ErrorColor, ResetColor)
				buffer.Reset()
			} else {
				buffer.WriteString(" ")
			}
			continue
		}
		buffer.Reset()
		cli.addToHistory(request)

		resp, err := cli.send(frame)
		if err != nil {
			fmt.Printf("%s✗ %v%s\n", ErrorColor, err, ResetColor)
			return
		}
		fmt.Println(resp)
	}
}

func printHelp() {
	fmt.Println()
	fmt.Printf("%s%sLocal Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  help             Show this help message")
	fmt.Println("  quit, exit       Exit the client")
	fmt.Println("  history          Show command history")
	fmt.Println("  clear            Clear the screen")
	fmt.Println()
	fmt.Printf("%s%sCatalog Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  CREATE DATABASE [IF NOT EXISTS] <name>;")
	fmt.Println("  DROP DATABASE <name>;")
	fmt.Println("  SHOW DATABASES;")
	fmt.Println("  USE <name>[;]")
	fmt.Println("  ADD USER <name> PASSWORD <password>;")
	fmt.Println("  DELETE USER <name>;")
	fmt.Println()
	fmt.Println("Everything else is sent to the selected database as SQL.")
	fmt.Println()
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)
	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}
	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fastdb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}
	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}
	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}
	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

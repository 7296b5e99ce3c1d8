// Command usertool maintains the relay's credential table. The relay
// itself never mutates users; every entry is created offline with this
// tool and loaded read-only at startup.
//
//	usertool -users data/users.json init
//	usertool -users data/users.json add alice
//	usertool -users data/users.json list
package main

import (
	"bufio"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/json"
	"flag"
	"fmt"
	"hash"
	"io"
	"log"
	"log/slog"
	"os"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/repositories"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func main() {
	usersPath := flag.String("users", "data/users.json", "Path to the credential table")
	algo := flag.String("algo", "md5", "Digest algorithm: md5, sha1 or sha256")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Expected a command: init, add or list")
	}

	var err error
	switch flag.Arg(0) {
	case "init":
		err = initTable(*usersPath)
	case "add":
		if flag.NArg() != 2 {
			log.Fatal("Usage: usertool add <username>")
		}
		err = addUser(*usersPath, flag.Arg(1), *algo)
	case "list":
		err = listUsers(*usersPath)
	default:
		log.Fatalf("Unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatal(err)
	}
}

// initTable creates an empty credential table, refusing to clobber an
// existing one.
func initTable(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer file.Close()

	if _, err = file.WriteString("{}\n"); err != nil {
		return err
	}
	fmt.Printf("Created empty credential table at %s\n", path)
	return nil
}

func addUser(path, username, algo string) error {
	newHash, err := hashConstructor(algo)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s (run init first?): %w", path, err)
	}
	var users map[string]string
	if err = json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("malformed credential table %s: %w", path, err)
	}
	if _, exists := users[username]; exists {
		return fmt.Errorf("user %q already exists", username)
	}

	fmt.Printf("Password for %s: ", username)
	stdin := bufio.NewScanner(os.Stdin)
	if !stdin.Scan() {
		return fmt.Errorf("no password given")
	}

	users[username] = auth.NewDigester(newHash).Digest(stdin.Text())

	out, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Added %s (%s digest)\n", username, algo)
	return nil
}

func listUsers(path string) error {
	store, err := repositories.LoadCredentialStore(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Digest"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.AppendBulk(lo.Map(store.Users(), func(user domain.User, _ int) []string {
		return []string{user.Username, user.PasswordDigest}
	}))
	table.Render()
	return nil
}

func hashConstructor(algo string) (func() hash.Hash, error) {
	switch algo {
	case "md5":
		return md5.New, nil
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", algo)
	}
}

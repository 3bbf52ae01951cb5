// juntactl is the operator CLI: admin account management and allow-list
// generation against the server's database.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/playperu/junta/internal/database"
	"github.com/playperu/junta/internal/gate"
	"github.com/playperu/junta/internal/migrations"
	"github.com/playperu/junta/internal/server"
)

var dbPath string

func openStores(ctx context.Context) (*server.DocStore, *server.AdminDocStore, func(), error) {
	db, err := database.Open(ctx, dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	return server.NewDocStore(db), server.NewAdminDocStore(db), func() { db.Close() }, nil
}

var addAdminEmail string

func addAdmin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	addAdminEmail = strings.TrimSpace(strings.ToLower(addAdminEmail))
	if addAdminEmail == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Print("Enter password: ")
	pwBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if len(pwBytes) == 0 {
		return fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword(pwBytes, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, admin, closeDB, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := admin.EnsureAdmin(ctx, addAdminEmail, string(hash)); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	fmt.Printf("Admin %q added.\n", addAdminEmail)
	return nil
}

func listGames(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, _, closeDB, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	docs, err := store.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("listing games: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "id\tname\tsegments\tplayers\tgated\tcreated\n")
	for _, doc := range docs {
		segments, players := 0, 0
		if doc.Game != nil {
			segments = doc.Game.Config.SegmentCount
			players = len(doc.Game.Accounts)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\t%s\n",
			doc.ID, doc.Name, segments, players, doc.GateRoot != "", doc.CreatedAt)
	}
	w.Flush()
	return nil
}

func genAllowlist(cmd *cobra.Command, args []string) error {
	tree := gate.BuildTree(args)

	fmt.Printf("root: %s\n\n", hex.EncodeToString(tree.Root[:]))
	for _, player := range args {
		proof := tree.Proof(player)
		entries := make([]string, len(proof))
		for i, sib := range proof {
			entries[i] = hex.EncodeToString(sib)
		}
		fmt.Printf("%s: [%s]\n", player, strings.Join(entries, ", "))
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "juntactl",
		Short:        "Operator tooling for the junta server",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/junta.db", "Path to the server's SQLite database")

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	addAdminCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an admin account",
		RunE:  addAdmin,
	}
	addAdminCmd.Flags().StringVar(&addAdminEmail, "email", "", "Admin's email address")
	adminCmd.AddCommand(addAdminCmd)

	gameCmd := &cobra.Command{
		Use:   "game",
		Short: "Inspect games",
	}
	listGamesCmd := &cobra.Command{
		Use:   "list",
		Short: "List all games",
		RunE:  listGames,
	}
	gameCmd.AddCommand(listGamesCmd)

	allowlistCmd := &cobra.Command{
		Use:   "allowlist [player...]",
		Short: "Build a Merkle allow-list: prints the root and each player's proof",
		Args:  cobra.MinimumNArgs(1),
		RunE:  genAllowlist,
	}

	rootCmd.AddCommand(adminCmd, gameCmd, allowlistCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Package cli holds the ledgerctl operator commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Astemirdum/library-ledger/ledger/app"
	"github.com/Astemirdum/library-ledger/ledger/config"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/ledger/migrations"
	"github.com/Astemirdum/library-ledger/pkg/logger"
	"github.com/Astemirdum/library-ledger/pkg/postgres"
	"github.com/Astemirdum/library-ledger/pkg/validate"
)

type options struct {
	storage string
}

func (o *options) config() *config.Config {
	cfg := *config.NewConfig()
	if o.storage != "" {
		cfg.Storage = o.storage
	}
	return &cfg
}

func (o *options) open(ctx context.Context) (*app.Ledger, *zap.Logger, error) {
	cfg := o.config()
	log := logger.NewLogger(cfg.Log, "ledgerctl")
	l, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return l, log, nil
}

func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operator tooling for the library loan ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.storage, "storage", "", "storage driver override (postgres|memory)")
	root.AddCommand(
		newMigrateCmd(o),
		newCreateStaffCmd(o),
		newDebtCmd(o),
	)
	return root
}

func newMigrateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := o.config()
			db, err := postgres.NewPostgresDB(cmd.Context(), &cfg.Database, migrations.MigrationFiles)
			if err != nil {
				return err
			}
			db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newCreateStaffCmd(o *options) *cobra.Command {
	req := model.RegisterRequest{Role: model.RoleEmployee}
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Register an employee account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				password, err := readPassword(cmd, "senha: ")
				if err != nil {
					return err
				}
				req.Password = password
			}
			if err := validate.NewCustomValidator().Validate(req); err != nil {
				return err
			}
			l, log, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()
			defer func() { _ = log.Sync() }()

			reader, err := l.Service.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "funcionário %s (%s) cadastrado\n", reader.Name, reader.CPF)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.CPF, "cpf", "", "CPF")
	f.StringVar(&req.Name, "nome", "", "full name")
	f.StringVar(&req.Email, "email", "", "e-mail")
	f.StringVar(&req.RegistrationNumber, "matricula", "", "registration number")
	f.StringVar(&req.Password, "senha", "", "password, prompted when empty")
	_ = cmd.MarkFlagRequired("cpf")
	_ = cmd.MarkFlagRequired("nome")
	return cmd
}

func newDebtCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "debt <cpf>",
		Short: "Print the outstanding debt of a reader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, log, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()
			defer func() { _ = log.Sync() }()

			debt, err := l.Service.ReaderDebt(cmd.Context(), validate.NormalizeCPF(args[0]))
			if err != nil {
				return err
			}
			printDebt(cmd, debt)
			return nil
		},
	}
}

func printDebt(cmd *cobra.Command, debt model.ReaderDebt) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", debt.Reader.Name, debt.Reader.CPF)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LIVRO\tEMPRESTIMO\tDEVOLUCAO\tSTATUS\tDEBITO")
	for _, l := range debt.Loans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\tR$ %s\n",
			l.BookID,
			l.BorrowedAt.Format(model.DisplayDate),
			l.DueAt.Format(model.DisplayDate),
			l.Status,
			l.Debt)
	}
	_ = w.Flush()
	fmt.Fprintf(out, "total: R$ %s\n", debt.Total)
}

func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--senha is required when stdin is not a terminal")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

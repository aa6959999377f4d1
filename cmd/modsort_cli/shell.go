package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sushant-115/modsort/core/catalog"
	"github.com/sushant-115/modsort/core/resolution"
	"github.com/sushant-115/modsort/core/transaction"
)

const helpText = `Commands:
  table <name> row|col [default|reverse|numeric]
  tables
  begin
  op <type> <table> [key|recno]     types: none ref_delete truncate_col truncate_row
                                           basic_col basic_row inmem_col inmem_row
  ops
  sort
  check
  prepare
  commit
  rollback
  help
  exit / quit`

// shell holds the state of one CLI session: a table registry and at most one
// open transaction.
type shell struct {
	out       io.Writer
	logger    *zap.Logger
	registry  *catalog.Registry
	resolver  *resolution.Resolver
	txn       *transaction.Transaction
	nextTxnID uint64
}

func newShell(out io.Writer, logger *zap.Logger, resolver *resolution.Resolver) *shell {
	return &shell{
		out:       out,
		logger:    logger,
		registry:  catalog.NewRegistry(logger),
		resolver:  resolver,
		nextTxnID: 1,
	}
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// processCommand handles a single command, either from args or interactive mode.
// Errors are printed; they never end the session.
func (s *shell) processCommand(args []string) {
	if len(args) == 0 {
		s.printf("Error: No command provided.\n")
		return
	}
	if err := s.dispatch(strings.ToLower(args[0]), args[1:]); err != nil {
		s.printf("Error: %v\n", err)
	}
}

func (s *shell) dispatch(command string, args []string) error {
	switch command {
	case "table":
		return s.createTable(args)
	case "tables":
		for _, t := range s.registry.Tables() {
			collator := "default"
			if t.Collator() != nil {
				collator = "custom"
			}
			s.printf("%d\t%s\t%s\t%s\n", t.ID(), t.Name(), t.Kind(), collator)
		}
		return nil
	case "begin":
		if s.txn != nil {
			return fmt.Errorf("transaction %d is still open", s.txn.ID)
		}
		s.txn = transaction.NewTransaction(s.nextTxnID)
		s.nextTxnID++
		s.printf("txn %d started\n", s.txn.ID)
		return nil
	case "op":
		return s.logOp(args)
	case "ops":
		txn, err := s.openTxn()
		if err != nil {
			return err
		}
		s.printMods(txn.Mods())
		return nil
	case "sort":
		txn, err := s.openTxn()
		if err != nil {
			return err
		}
		txn.SortMods()
		s.printMods(txn.Mods())
		return nil
	case "check":
		txn, err := s.openTxn()
		if err != nil {
			return err
		}
		mods := txn.Mods()
		if i, ok := transaction.CheckSorted(mods); !ok {
			s.printf("not sorted at %d: %s then %s\n", i, &mods[i], &mods[i+1])
			return nil
		}
		s.printf("sorted\n")
		return nil
	case "prepare":
		txn, err := s.openTxn()
		if err != nil {
			return err
		}
		if err := txn.Prepare(); err != nil {
			return err
		}
		s.printf("txn %d prepared\n", txn.ID)
		return nil
	case "commit":
		return s.resolve(resolution.Commit)
	case "rollback":
		return s.resolve(resolution.Rollback)
	case "help":
		s.printf("%s\n", helpText)
		return nil
	}
	return fmt.Errorf("unknown command %q, type 'help' for a list of commands", command)
}

func (s *shell) createTable(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("table requires <name> row|col [collator]")
	}
	kind, err := catalog.ParseStorageKind(args[1])
	if err != nil {
		return err
	}
	var collator catalog.KeyOrder
	if len(args) == 3 {
		if collator, err = catalog.CollatorByName(args[2]); err != nil {
			return err
		}
	}
	t, err := s.registry.Create(args[0], kind, collator)
	if err != nil {
		return err
	}
	s.printf("table %s created with id %d\n", t.Name(), t.ID())
	return nil
}

func (s *shell) logOp(args []string) error {
	txn, err := s.openTxn()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("op requires <type> <table> [key|recno]")
	}
	typ, err := transaction.ParseOpType(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	table, err := s.registry.ByName(args[1])
	if err != nil {
		return err
	}

	// The constructors panic on misuse; check the shape here so a typo is an
	// error message instead of a crash.
	var op transaction.Operation
	switch {
	case !typ.HasKey():
		if len(args) != 2 {
			return fmt.Errorf("%s takes no key", typ)
		}
		op = transaction.NewStructuralOp(table, typ)
	case len(args) != 3:
		return fmt.Errorf("%s requires a key or record number", typ)
	case (typ == transaction.OpBasicRow || typ == transaction.OpInMemRow) && table.Kind() == catalog.RowStore:
		op = transaction.NewRowOp(table, typ, []byte(args[2]))
	case (typ == transaction.OpBasicCol || typ == transaction.OpInMemCol) && table.Kind() == catalog.ColumnStore:
		recno, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil || recno == transaction.RecnoOOB {
			return fmt.Errorf("invalid record number %q", args[2])
		}
		op = transaction.NewColOp(table, typ, recno)
	default:
		return fmt.Errorf("%s does not apply to %s table %s", typ, table.Kind(), table.Name())
	}
	return txn.Log(op)
}

func (s *shell) resolve(d resolution.Decision) error {
	txn, err := s.openTxn()
	if err != nil {
		return err
	}
	sum, err := s.resolver.Resolve(context.Background(), txn, d)
	if err != nil {
		return err
	}
	s.printf("txn %d %s: %d tables, %d keyed, %d structural (resolution %s)\n",
		txn.ID, txn.State, sum.Tables, sum.Keyed, sum.Structural, sum.ResolutionID)
	s.txn = nil
	return nil
}

func (s *shell) openTxn() (*transaction.Transaction, error) {
	if s.txn == nil {
		return nil, fmt.Errorf("no open transaction, use 'begin'")
	}
	return s.txn, nil
}

func (s *shell) printMods(mods []transaction.Operation) {
	for i := range mods {
		s.printf("%3d  %s\n", i, &mods[i])
	}
}

// Command godb-repl is a line-edited shell for driving canned operator
// trees over a godb heap file interactively. It is not a SQL front end:
// the SQL/relational-algebra layer is out of scope for the core engine
// (see the package's design notes), so this shell exposes a small plan-
// building command grammar instead of parsing SQL text. It exists to
// mirror the role the teacher repo's separate "main" module played,
// wrapping the godb package for interactive use, built on the same
// readline dependency that module's go.mod named.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"tinydb/godb"
)

func main() {
	rl, err := readline.New("godb> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "readline:", err)
		os.Exit(1)
	}
	defer rl.Close()

	sh := newShell()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := sh.dispatch(line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

// shell holds the named tables and the named operator plans built against
// them, so that commands can refer back to earlier results by name.
type shell struct {
	tables map[string]*godb.HeapFile
	plans  map[string]godb.Operator
}

func newShell() *shell {
	return &shell{
		tables: make(map[string]*godb.HeapFile),
		plans:  make(map[string]godb.Operator),
	}
}

// dispatch parses and runs one command line. The grammar is deliberately
// tiny:
//
//	load <table> <file.csv> <int|string>[,<int|string>...]
//	scan <table> as <plan>
//	filter <plan> <fieldIndex> <op> <value> as <newPlan>   (int if it parses, else string)
//	join <planA> <planB> <fieldIndexA> <fieldIndexB> as <newPlan>
//	run <plan>
func (s *shell) dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "load":
		return s.cmdLoad(fields[1:])
	case "scan":
		return s.cmdScan(fields[1:])
	case "filter":
		return s.cmdFilter(fields[1:])
	case "join":
		return s.cmdJoin(fields[1:])
	case "run":
		return s.cmdRun(fields[1:])
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (s *shell) cmdLoad(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: load <table> <file.csv> <types>")
	}
	table, path, typeSpec := args[0], args[1], args[2]

	desc, err := parseTypeSpec(typeSpec)
	if err != nil {
		return err
	}

	bp := godb.GetDatabase().BufferPool()
	hf, err := godb.NewHeapFile(table+".dat", desc, bp)
	if err != nil {
		return err
	}

	csv, err := os.Open(path)
	if err != nil {
		return err
	}
	defer csv.Close()

	if err := hf.LoadFromCSV(csv, true, ",", false); err != nil {
		return err
	}

	godb.GetDatabase().Catalog().AddTable(hf, table, "")
	s.tables[table] = hf
	fmt.Printf("loaded %s (%d pages)\n", table, hf.NumPages())
	return nil
}

func parseTypeSpec(spec string) (*godb.TupleDesc, error) {
	parts := strings.Split(spec, ",")
	fields := make([]godb.FieldType, len(parts))
	for i, p := range parts {
		switch p {
		case "int":
			fields[i] = godb.FieldType{Fname: fmt.Sprintf("f%d", i), Ftype: godb.IntType}
		case "string":
			fields[i] = godb.FieldType{Fname: fmt.Sprintf("f%d", i), Ftype: godb.StringType}
		default:
			return nil, fmt.Errorf("unknown type %q", p)
		}
	}
	return &godb.TupleDesc{Fields: fields}, nil
}

func (s *shell) cmdScan(args []string) error {
	if len(args) != 3 || args[1] != "as" {
		return fmt.Errorf("usage: scan <table> as <plan>")
	}
	table, plan := args[0], args[2]
	hf, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("no such table %q", table)
	}
	s.plans[plan] = godb.NewSeqScan(hf, table)
	return nil
}

func (s *shell) cmdFilter(args []string) error {
	if len(args) != 6 || args[4] != "as" {
		return fmt.Errorf("usage: filter <plan> <fieldIndex> <op> <value> as <newPlan>")
	}
	planName, idxStr, opStr, valStr, newPlan := args[0], args[1], args[2], args[3], args[5]

	plan, ok := s.plans[planName]
	if !ok {
		return fmt.Errorf("no such plan %q", planName)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return err
	}
	op, err := parseOp(opStr)
	if err != nil {
		return err
	}

	var value godb.DBValue
	if n, err := strconv.ParseInt(valStr, 10, 32); err == nil {
		value = godb.IntField{Value: int32(n)}
	} else {
		value = godb.StringField{Value: valStr}
	}

	pred, err := godb.NewPredicate(plan.Descriptor(), idx, op, value)
	if err != nil {
		return err
	}
	filter, err := godb.NewFilter(pred, plan)
	if err != nil {
		return err
	}
	s.plans[newPlan] = filter
	return nil
}

func parseOp(s string) (godb.BoolOp, error) {
	switch s {
	case "=":
		return godb.OpEquals, nil
	case "!=", "<>":
		return godb.OpNotEquals, nil
	case "<":
		return godb.OpLessThan, nil
	case "<=":
		return godb.OpLessThanOrEqual, nil
	case ">":
		return godb.OpGreaterThan, nil
	case ">=":
		return godb.OpGreaterThanOrEqual, nil
	case "like":
		return godb.OpLike, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

func (s *shell) cmdJoin(args []string) error {
	if len(args) != 6 || args[4] != "as" {
		return fmt.Errorf("usage: join <planA> <planB> <fieldIndexA> <fieldIndexB> as <newPlan>")
	}
	leftName, rightName := args[0], args[1]
	leftIdx, err := strconv.Atoi(args[2])
	if err != nil {
		return err
	}
	rightIdx, err := strconv.Atoi(args[3])
	if err != nil {
		return err
	}
	newPlan := args[5]

	left, ok := s.plans[leftName]
	if !ok {
		return fmt.Errorf("no such plan %q", leftName)
	}
	right, ok := s.plans[rightName]
	if !ok {
		return fmt.Errorf("no such plan %q", rightName)
	}

	pred, err := godb.NewJoinPredicate(left.Descriptor(), leftIdx, godb.OpEquals, right.Descriptor(), rightIdx)
	if err != nil {
		return err
	}
	join, err := godb.NewJoinOp(left, right, pred)
	if err != nil {
		return err
	}
	s.plans[newPlan] = join
	return nil
}

func (s *shell) cmdRun(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: run <plan>")
	}
	plan, ok := s.plans[args[0]]
	if !ok {
		return fmt.Errorf("no such plan %q", args[0])
	}

	tid := godb.NewTID()
	if err := plan.Open(tid); err != nil {
		return err
	}
	defer plan.Close()

	fmt.Println(plan.Descriptor().HeaderString())
	for {
		has, err := plan.HasNext()
		if err != nil {
			return err
		}
		if !has {
			return nil
		}
		t, err := plan.Next()
		if err != nil {
			return err
		}
		fmt.Println(t.PrettyPrintString())
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amolina-dev/storefront/internal/stores"
	pkgerrors "github.com/amolina-dev/storefront/pkg/errors"
)

// menu drives the interactive store loop. Failures are reported and the
// loop continues; the process never dies on a rejected order. In debug
// mode failures additionally print the full error chain.
type menu struct {
	store *stores.Store
	in    *bufio.Scanner
	out   io.Writer
	debug bool
}

func newMenu(store *stores.Store, in io.Reader, out io.Writer, debug bool) *menu {
	return &menu{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
		debug: debug,
	}
}

func (m *menu) run(ctx context.Context) {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "===== Store Management System =====")
		fmt.Fprintln(m.out, "1. List all products in store")
		fmt.Fprintln(m.out, "2. Show total quantity in store")
		fmt.Fprintln(m.out, "3. Make an order")
		fmt.Fprintln(m.out, "4. Quit")

		choice, ok := m.prompt("Enter your choice (1-4): ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			m.listProducts()
		case "2":
			m.showTotalQuantity()
		case "3":
			m.makeOrder(ctx)
		case "4":
			fmt.Fprintln(m.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please enter a number between 1 and 4.")
		}
	}
}

func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) listProducts() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Products in store:")
	for _, p := range m.store.ListProducts() {
		fmt.Fprintln(m.out, p.Describe())
	}
}

func (m *menu) showTotalQuantity() {
	fmt.Fprintf(m.out, "\nTotal quantity of all products in store: %d\n", m.store.TotalQuantity())
}

func (m *menu) makeOrder(ctx context.Context) {
	active := m.store.ListActiveProducts()
	if len(active) == 0 {
		fmt.Fprintln(m.out, "\nNo products available to order.")
		return
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Select products to order:")
	for i, p := range active {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, p.Describe())
	}
	fmt.Fprintln(m.out, "0. Done ordering")

	var lines []stores.OrderLine
	for {
		selection, ok := m.prompt("Enter product number to order (0 to finish): ")
		if !ok || selection == "0" {
			break
		}

		idx, err := strconv.Atoi(selection)
		if err != nil || idx < 1 || idx > len(active) {
			fmt.Fprintln(m.out, "Invalid selection. Please enter a valid product number.")
			continue
		}
		chosen := active[idx-1]

		qtyText, ok := m.prompt(fmt.Sprintf("Enter quantity for '%s': ", chosen.Name()))
		if !ok {
			break
		}
		qty, err := strconv.Atoi(qtyText)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid input. Please enter a number.")
			continue
		}

		lines = append(lines, stores.OrderLine{ProductID: chosen.ID(), Quantity: qty})
	}

	if len(lines) == 0 {
		return
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Order summary:")
	for _, line := range lines {
		p, err := m.store.FindProduct(line.ProductID)
		if err != nil {
			m.reportError(err)
			return
		}
		fmt.Fprintf(m.out, "  %d x %s\n", line.Quantity, p.Name())
	}

	total, err := m.store.Order(ctx, lines)
	if err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintf(m.out, "\nTotal price of the order: $%s\n", total.StringFixed(2))
}

func (m *menu) reportError(err error) {
	if typed := pkgerrors.As(err); typed != nil {
		meta := pkgerrors.MetadataFor(typed.Code())
		fmt.Fprintf(m.out, "\nOrder failed: %s (%s)\n", meta.PublicMessage, typed.Message())
	} else {
		fmt.Fprintf(m.out, "\nOrder failed: %v\n", err)
	}

	if m.debug {
		for _, entry := range pkgerrors.Dump(err).Chain {
			fmt.Fprintf(m.out, "  %s\n", entry)
		}
	}
}

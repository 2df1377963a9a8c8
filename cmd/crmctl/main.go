// Command crmctl is a terminal client for the CRM API. It drives the
// same controllers the console views use: paginated customer lists,
// customer detail with lead aggregates, the dashboard summary and the
// confirm-then-refresh delete flows.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/minicrm/minicrm/internal/console"
	"github.com/minicrm/minicrm/internal/crm"
)

const usage = `usage: crmctl [flags] <command> [args]

commands:
  dashboard                     show totals, recent customers and leads
  customers                     list customers (use -search, -page)
  customer <id>                 show one customer with leads and stats
  customer-add                  create a customer (use -name, -cust-email, -phone, -company)
  customer-rm <id>              delete a customer and its leads
  lead-add <customer-id>        create a lead (use -title, -desc, -lead-status, -value)
  lead-rm <id>                  delete a lead
  seed                          create the sample data set
`

type options struct {
	addr     string
	email    string
	password string
	search   string
	page     int
	status   string

	name      string
	custEmail string
	phone     string
	company   string
	title     string
	desc      string
	value     string
}

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func main() {
	opts := options{}
	flag.StringVar(&opts.addr, "addr", envOr("CRMCTL_ADDR", "http://localhost:8080"), "server base URL")
	flag.StringVar(&opts.email, "email", envOr("CRMCTL_EMAIL", "admin@minicrm.com"), "login email")
	flag.StringVar(&opts.password, "password", envOr("CRMCTL_PASSWORD", "admin123"), "login password")
	flag.StringVar(&opts.search, "search", "", "customer search filter")
	flag.IntVar(&opts.page, "page", 1, "page number")
	flag.StringVar(&opts.status, "lead-status", "", "lead status filter or value")
	flag.StringVar(&opts.name, "name", "", "customer name")
	flag.StringVar(&opts.custEmail, "cust-email", "", "customer email")
	flag.StringVar(&opts.phone, "phone", "", "customer phone")
	flag.StringVar(&opts.company, "company", "", "customer company")
	flag.StringVar(&opts.title, "title", "", "lead title")
	flag.StringVar(&opts.desc, "desc", "", "lead description")
	flag.StringVar(&opts.value, "value", "", "lead value")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := console.NewClient(opts.addr)
	if _, err := client.Login(ctx, opts.email, opts.password); err != nil {
		fatal(console.ErrorDetail(err, "login failed"))
	}
	defer func() { _ = client.Logout(context.Background()) }()

	var err error
	switch args[0] {
	case "dashboard":
		err = runDashboard(ctx, client)
	case "customers":
		err = runCustomers(ctx, client, opts)
	case "customer":
		err = runCustomerDetail(ctx, client, opts, arg(args, 1))
	case "customer-add":
		err = runCustomerAdd(ctx, client, opts)
	case "customer-rm":
		err = runCustomerDelete(ctx, client, arg(args, 1))
	case "lead-add":
		err = runLeadAdd(ctx, client, opts, arg(args, 1))
	case "lead-rm":
		err = runLeadDelete(ctx, client, arg(args, 1))
	case "seed":
		err = client.SeedData(ctx)
		if err == nil {
			fmt.Println("sample data ready")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(console.ErrorDetail(err, err.Error()))
	}
}

func runDashboard(ctx context.Context, client *console.Client) error {
	dash := console.NewDashboardController(client)
	if err := dash.Load(ctx); err != nil {
		return err
	}

	stats := dash.Stats()
	fmt.Printf("Customers: %d  Leads: %d  Pipeline: %s\n",
		stats.TotalCustomers, stats.TotalLeads, money(stats.TotalValue))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT")
	for _, status := range crm.AllLeadStatuses {
		fmt.Fprintf(w, "%s\t%d\n", status, dash.LeadStatusCounts()[status])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nRecent customers:")
	for _, c := range dash.RecentCustomers() {
		fmt.Printf("  %s  %s (%s)\n", c.ID, c.Name, c.Company)
	}
	fmt.Println("Recent leads:")
	for _, l := range dash.RecentLeads() {
		fmt.Printf("  %s  %s [%s] %s\n", l.ID, l.Title, l.Status, money(l.Value))
	}
	return nil
}

func runCustomers(ctx context.Context, client *console.Client, opts options) error {
	list := console.NewListController(client.ListCustomers, 10)
	list.SetSearch(opts.search)
	if err := list.Load(ctx); err != nil {
		return err
	}
	for list.PageIndex() < opts.page-1 && list.CanNext() {
		if err := list.NextPage(ctx); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY")
	for _, c := range list.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Company)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d of %d\n", list.PageIndex()+1, list.TotalPages())
	return nil
}

func runCustomerDetail(ctx context.Context, client *console.Client, opts options, id string) error {
	detail := console.NewDetailController(client)
	if err := detail.Load(ctx, id); err != nil {
		return err
	}
	if opts.status != "" {
		detail.SetStatusFilter(crm.LeadStatus(opts.status))
	}

	c := detail.Customer()
	fmt.Printf("%s <%s>\n%s, %s\n\n", c.Name, c.Email, c.Company, c.Phone)

	stats := detail.Stats()
	fmt.Printf("Leads: %d (%d converted)  Total: %s  Converted: %s\n\n",
		stats.LeadCount, stats.ConvertedCount, money(stats.TotalValue), money(stats.ConvertedValue))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tVALUE")
	for _, l := range detail.FilteredLeads() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Title, l.Status, money(l.Value))
	}
	return w.Flush()
}

func runCustomerAdd(ctx context.Context, client *console.Client, opts options) error {
	form := console.NewCustomerForm(client, nil, nil)
	form.Values = console.CustomerFormValues{
		Name:    opts.name,
		Email:   opts.custEmail,
		Phone:   opts.phone,
		Company: opts.company,
	}
	if err := form.Submit(ctx); err != nil {
		return fmt.Errorf("%s", form.ErrorMessage())
	}
	fmt.Println("customer created")
	return nil
}

func runLeadAdd(ctx context.Context, client *console.Client, opts options, customerID string) error {
	form := console.NewLeadForm(client, customerID, nil, nil)
	form.Values.Title = opts.title
	form.Values.Description = opts.desc
	if opts.status != "" {
		form.Values.Status = crm.LeadStatus(opts.status)
	}
	form.Values.Value = opts.value
	if err := form.Submit(ctx); err != nil {
		return fmt.Errorf("%s", form.ErrorMessage())
	}
	fmt.Println("lead created")
	return nil
}

func runCustomerDelete(ctx context.Context, client *console.Client, id string) error {
	flow := console.NewDeleteFlow(stdinConfirmer{})
	return flow.Run(ctx, "Are you sure you want to delete this customer?",
		func(ctx context.Context) error { return client.DeleteCustomer(ctx, id) },
		func(ctx context.Context) error {
			fmt.Println("customer deleted")
			return nil
		})
}

func runLeadDelete(ctx context.Context, client *console.Client, id string) error {
	flow := console.NewDeleteFlow(stdinConfirmer{})
	return flow.Run(ctx, "Are you sure you want to delete this lead?",
		func(ctx context.Context) error { return client.DeleteLead(ctx, id) },
		func(ctx context.Context) error {
			fmt.Println("lead deleted")
			return nil
		})
}

// stdinConfirmer prompts on the terminal before destructive actions.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func arg(args []string, i int) string {
	if i >= len(args) {
		fatal("missing id argument")
	}
	return args[i]
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "crmctl: "+msg)
	os.Exit(1)
}

// Package main generates a demo fixture file for the mock gateway and,
// optionally, bcrypt password hashes for console user config.
//
// Usage:
//
//	seed -out fixture.json          write a demo data set
//	seed -hash 'plaintext'          print a bcrypt hash and exit
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"invest-console.io/console/internal/domain"
	"invest-console.io/console/internal/gateway"
)

func main() {
	out := flag.String("out", "fixture.json", "output path for the fixture file")
	hash := flag.String("hash", "", "print a bcrypt hash for this password and exit")
	flag.Parse()

	if *hash != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*hash), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(h))
		return
	}

	if err := writeFixture(*out); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

func writeFixture(path string) error {
	data, err := json.MarshalIndent(demoFixture(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// demoFixture builds a small but representative data set: two portfolio
// owners, three sub-marketers, and a dozen investments spread across every
// status.
func demoFixture() gateway.Fixture {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	owners := []domain.PortfolioOwner{
		{PortfolioOwnerID: "po-north", Name: "North Capital Partners", Email: "ops@northcapital.example", Status: "active", CreatedAt: base},
		{PortfolioOwnerID: "po-south", Name: "South Ridge Asset Management", Email: "ops@southridge.example", Status: "active", CreatedAt: base},
	}

	subMarketers := []domain.SubMarketer{
		{SubMarketerID: "sm-anand", PortfolioOwnerID: "po-north", Name: "Anand Rao", Email: "anand@northcapital.example", Phone: "+91-98000-11111", Status: "active", CreatedAt: base},
		{SubMarketerID: "sm-leela", PortfolioOwnerID: "po-north", Name: "Leela Iyer", Email: "leela@northcapital.example", Status: "active", CreatedAt: base},
		{SubMarketerID: "sm-vikram", PortfolioOwnerID: "po-south", Name: "Vikram Joshi", Email: "vikram@southridge.example", Status: "active", CreatedAt: base},
	}

	investors := []struct {
		id, name, email string
	}{
		{"inv-u1", "Ravi Kumar", "ravi.kumar@investors.example"},
		{"inv-u2", "Meera Shah", "meera.shah@investors.example"},
		{"inv-u3", "Daniel Ortiz", "daniel.ortiz@investors.example"},
		{"inv-u4", "Priya Nair", "priya.nair@investors.example"},
		{"inv-u5", "Arjun Mehta", "arjun.mehta@investors.example"},
		{"inv-u6", "Sofia Lindqvist", "sofia.lindqvist@investors.example"},
	}

	statuses := domain.AllStatuses
	amounts := []int64{50000, 75000, 100000, 150000, 200000, 250000}

	var records []domain.InvestmentRecord
	for i := 0; i < 12; i++ {
		inv := investors[i%len(investors)]
		sm := subMarketers[i%len(subMarketers)]
		invested := base.AddDate(0, 0, 7*i)
		records = append(records, domain.InvestmentRecord{
			InvestmentID:     uuid.NewString(),
			InvestorID:       inv.id,
			SubMarketerID:    sm.SubMarketerID,
			PortfolioOwnerID: sm.PortfolioOwnerID,
			Amount:           decimal.NewFromInt(amounts[i%len(amounts)]),
			Status:           statuses[i%len(statuses)],
			InvestedDate:     invested,
			CreatedAt:        invested,
			UpdatedAt:        invested,
			InvestorName:     inv.name,
			InvestorEmail:    inv.email,
			SubMarketerName:  sm.Name,
		})
	}

	return gateway.Fixture{
		Owners:       owners,
		SubMarketers: subMarketers,
		Investments:  records,
	}
}

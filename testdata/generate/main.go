// Generates sample upload files in testdata/: a semicolon-delimited shift
// export, two weekly salary CSVs and a transaction workbook with serial date
// cells, matching the layouts the taximeter and card terminal systems export.
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	startDate := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	generateShiftDat(rng, baseDir, startDate)
	generateSalaryCSVs(rng, baseDir)
	generateTransactionXLSX(rng, baseDir, startDate)

	fmt.Println("Test data generation complete.")
}

func generateShiftDat(rng *rand.Rand, baseDir string, start time.Time) {
	filePath := filepath.Join(baseDir, "skift_januar.dat")
	f, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	defer w.Flush()

	w.Write([]string{"Dato", "Løyve", "Sjåfør", "Kontant", "Kreditt", "Kreditt Utlegg", "Bomtur", "Totalt (kroner)"})

	count := 0
	for day := 0; day < 14; day++ {
		date := start.AddDate(0, 0, day)
		for shift := 0; shift < 2; shift++ {
			kontant := round2(200 + rng.Float64()*1800)
			kreditt := round2(500 + rng.Float64()*4500)
			utlegg := round2(rng.Float64() * 200)
			bomtur := round2(rng.Float64() * 150)

			w.Write([]string{
				date.Format("2006-01-02"),
				"V-12",
				fmt.Sprintf("%04d", 40+rng.Intn(5)),
				nok(kontant),
				nok(kreditt),
				nok(utlegg),
				nok(bomtur),
				nok(kontant + kreditt),
			})
			count++
		}
	}

	fmt.Printf("Generated %d shift records -> skift_januar.dat\n", count)
}

func generateSalaryCSVs(rng *rand.Rand, baseDir string) {
	for week := 1; week <= 2; week++ {
		filePath := filepath.Join(baseDir, fmt.Sprintf("lonn_uke%d.csv", week))
		f, err := os.Create(filePath)
		if err != nil {
			panic(err)
		}

		w := csv.NewWriter(f)
		w.Comma = ';'

		w.Write([]string{"Ansatt", "Lønn", "Skatt", "Netto utbetalt", "Kreditt_tips"})

		count := 0
		for i := 0; i < 5; i++ {
			lonn := round2(8000 + rng.Float64()*8000)
			skatt := round2(lonn * (0.25 + rng.Float64()*0.1))
			netto := round2(lonn - skatt)
			tips := round2(rng.Float64() * 400)

			w.Write([]string{
				fmt.Sprintf("%04d", 40+i),
				nok(lonn),
				nok(skatt),
				nok(netto),
				nok(tips),
			})
			count++
		}

		w.Flush()
		f.Close()
		fmt.Printf("Generated %d salary records -> lonn_uke%d.csv\n", count, week)
	}
}

func generateTransactionXLSX(rng *rand.Rand, baseDir string, start time.Time) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []any{"Payout date", "Fra", "Til", "Brutto", "Avgifter", "Netto", "Kort type"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		panic(err)
	}

	cardTypes := []string{"VISA", "Mastercard", "BankAxept", ""}
	row := 2
	for day := 0; day < 14; day++ {
		// Card takings pay out the next business day.
		payout := start.AddDate(0, 0, day+1)
		for i := 0; i < 3+rng.Intn(4); i++ {
			from := start.AddDate(0, 0, day).Add(time.Duration(6+rng.Intn(12)) * time.Hour)
			to := from.Add(time.Duration(30+rng.Intn(180)) * time.Minute)
			brutto := round2(100 + rng.Float64()*900)
			avgifter := round2(brutto * 0.025)

			values := []any{
				serial(payout),
				serial(from),
				serial(to),
				brutto,
				avgifter,
				round2(brutto - avgifter),
				cardTypes[rng.Intn(len(cardTypes))],
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				panic(err)
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				panic(err)
			}
			row++
		}
	}

	filePath := filepath.Join(baseDir, "transaksjoner_januar.xlsx")
	if err := f.SaveAs(filePath); err != nil {
		panic(err)
	}
	fmt.Printf("Generated %d transaction rows -> transaksjoner_januar.xlsx\n", row-2)
}

// serial converts a timestamp to the spreadsheet day count the terminal
// export stores, relative to the 1899-12-30 epoch.
func serial(t time.Time) float64 {
	return float64(t.Unix())/86400 + 25569
}

// nok formats an amount with the comma decimal separator the exports use.
func nok(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	return s[:len(s)-3] + "," + s[len(s)-2:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func findTestdataDir() string {
	candidates := []string{
		"testdata",
		filepath.Join("..", "..", "testdata"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "testdata"
}

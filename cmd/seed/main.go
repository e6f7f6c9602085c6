package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dkim/aquamarket-backend/config"
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
)

// Imports a fish catalog from an XLSX file. Expected columns:
// Name | Species | Size (cm) | Price | Stock | Description | Image URL
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fishRepo := repository.NewFishRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	fishes, err := readFishesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total fishes to import: %d\n", len(fishes))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := fishRepo.BulkCreate(fishes, batchSize); err != nil {
		log.Fatal("Failed to bulk create fishes:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total fishes imported: %d\n", len(fishes))
}

func readFishesFromXLSX(filePath string) ([]model.Fish, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var fishes []model.Fish
	seen := make(map[string]bool) // dedupe on name+species
	skippedCount := 0

	// First row is the header
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		species := strings.TrimSpace(row[1])
		sizeStr := strings.TrimSpace(row[2])
		priceStr := strings.TrimSpace(row[3])
		stockStr := strings.TrimSpace(row[4])

		description := ""
		if len(row) > 5 {
			description = strings.TrimSpace(row[5])
		}
		imageURL := ""
		if len(row) > 6 {
			imageURL = strings.TrimSpace(row[6])
		}

		if name == "" || species == "" {
			skippedCount++
			continue
		}

		size, errSize := strconv.ParseFloat(sizeStr, 64)
		price, errPrice := strconv.ParseFloat(priceStr, 64)
		stock, errStock := strconv.Atoi(stockStr)
		if errSize != nil || errPrice != nil || errStock != nil || size <= 0 || price < 0 || stock < 0 {
			skippedCount++
			continue
		}

		key := fmt.Sprintf("%s|%s", name, species)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		fish := model.Fish{
			Name:          name,
			Species:       species,
			Size:          size,
			Price:         price,
			Description:   description,
			StockQuantity: stock,
			IsAvailable:   stock > 0,
		}
		if imageURL != "" {
			fish.ImageURLs = pq.StringArray{imageURL}
		}

		fishes = append(fishes, fish)
	}

	fmt.Printf("Skipped rows: %d\n", skippedCount)
	return fishes, nil
}

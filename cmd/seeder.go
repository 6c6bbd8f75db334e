package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	employeeDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/employee"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the employee directory with sample workers for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"dependents", "registrations", "admin_notifications", "employees"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		email := func(s string) *string { return &s }
		samples := []employeeDatamodel.Employee{
			{RUT: "123456785", Name: "María González Pérez", Email: email("maria.gonzalez@empresa.cl"), Active: true},
			{RUT: "98765433", Name: "Juan Soto Fuentes", Email: email("juan.soto@empresa.cl"), Active: true},
			{RUT: "18456789K", Name: "Camila Rojas Díaz", Email: email("camila.rojas@empresa.cl"), Active: true},
			{RUT: "141234560", Name: "Pedro Muñoz Castro", Email: email("pedro.munoz@empresa.cl"), Active: true},
			{RUT: "169342156", Name: "Francisca Herrera Núñez", Email: email("francisca.herrera@empresa.cl"), Active: true},
		}

		seeded := 0
		for _, emp := range samples {
			var exists int64
			if err := db.Model(&employeeDatamodel.Employee{}).Where("rut = ?", emp.RUT).Count(&exists).Error; err != nil {
				log.Fatalf("failed to check employee %s: %v", emp.RUT, err)
			}
			if exists > 0 {
				continue
			}
			if err := db.Create(&emp).Error; err != nil {
				log.Fatalf("failed to seed employee %s: %v", emp.RUT, err)
			}
			seeded++
		}

		fmt.Printf("Seeded %d employees\n", seeded)
	},
}

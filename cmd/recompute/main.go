package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/database"
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/repository"
	"github.com/dogacademy/academy_go_server/internal/service"
)

// 套餐状态重算工具。历史数据导入或规则调整后手工执行，
// --dry-run 只打印将发生的变化不落库。
func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	dryRun := flag.Bool("dry-run", false, "只打印将变化的套餐，不更新")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	packageRepo := repository.NewPackageRepository(db)
	now := time.Now()

	if *dryRun {
		pkgs, err := packageRepo.ListAllForRecompute()
		if err != nil {
			log.Fatalf("List packages failed: %v", err)
		}

		changed := 0
		for _, pkg := range pkgs {
			newStatus := model.DerivePackageStatus(pkg.RemainingSessions, pkg.ExpiryDate, now)
			if newStatus != pkg.Status {
				fmt.Printf("package %d (%s): %s -> %s\n", pkg.ID, pkg.Name, pkg.Status, newStatus)
				changed++
			}
		}
		fmt.Printf("dry-run: %d of %d packages would change\n", changed, len(pkgs))
		return
	}

	packageSvc := service.NewPackageService(
		db,
		packageRepo,
		repository.NewAlertRepository(db),
		repository.NewClientRepository(db),
		nil,
		cfg,
	)

	changed, err := packageSvc.RecomputeAll(now)
	if err != nil {
		log.Fatalf("Recompute failed: %v", err)
	}

	fmt.Printf("recompute finished: %d packages changed\n", changed)
}

// edueatsctl 运维命令行：数据库迁移与初始化数据
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/pkg/database"
	applogger "github.com/anubclao/Edueat/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "edueatsctl",
	Short: "EduEats 运维工具",
	Long: `EduEats 运维工具。

可用子命令:
  migrate - 数据库迁移（up / down / version）
  seed    - 写入系统角色、默认分类与菜谱、超级管理员`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 加载配置、日志并连接数据库
func bootstrap() (*gorm.DB, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log, "edueatsctl")
	if err != nil {
		return nil, nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return db, logger, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
}

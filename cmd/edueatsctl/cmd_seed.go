package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anubclao/Edueat/internal/seed"
	"github.com/anubclao/Edueat/pkg/database"
)

var seedFile string

// seedCmd 写入初始化数据（可重复执行）
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入初始化数据",
	Long: `写入系统角色、默认分类与菜谱、超级管理员。

已存在的记录保持不变，可重复执行。
--file 指定自定义 YAML，未指定时使用内置数据。`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "初始化数据 YAML 文件")
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := loadSeedData()
	if err != nil {
		return err
	}

	db, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	result, err := seed.Run(cmd.Context(), db, data, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "roles=%d categories=%d recipes=%d admin_created=%t\n",
		result.Roles, result.Categories, result.Recipes, result.Admin)
	return nil
}

func loadSeedData() (*seed.Data, error) {
	if seedFile == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("读取初始化数据文件失败: %w", err)
	}
	return seed.Parse(raw)
}

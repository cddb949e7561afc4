package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"inbatch/internal/app"
	"inbatch/internal/batch"
	"inbatch/internal/logging"
	"inbatch/ioc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	inputPath  string
	labels     []string
	kind       string
}

// env 是一次命令执行所需的公共依赖。
type env struct {
	cfg      app.Config
	logger   *zap.Logger
	registry *batch.Registry
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "lookup",
		Short:         "按大批量 ID/key 查询资产与图节点",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "配置文件路径")
	cmd.PersistentFlags().StringVarP(&opts.inputPath, "file", "f", "", "从文件读取 ID/key，每行一个，- 表示标准输入")

	cmd.AddCommand(newNamesCmd(opts), newCountCmd(opts), newNodesCmd(opts), newPurgeCmd(opts))
	return cmd
}

func setup(opts *options) (*env, error) {
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: ioc.InitRegistry(ioc.InitDispatcher(logger)),
	}, nil
}

func newNamesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "names [id...]",
		Short: "查询资产名称",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := readIDs(cmd.InOrStdin(), opts.inputPath, args)
			if err != nil {
				return err
			}
			e, err := setup(opts)
			if err != nil {
				return err
			}
			db, cleanup, err := ioc.InitDB(e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer cleanup()
			repo, err := ioc.InitAssetRepository(cmd.Context(), db, e.registry, e.cfg)
			if err != nil {
				return err
			}
			names, err := repo.FindNamesByIDs(cmd.Context(), ids)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newCountCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [id...]",
		Short: "统计命中的资产数量",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := readIDs(cmd.InOrStdin(), opts.inputPath, args)
			if err != nil {
				return err
			}
			e, err := setup(opts)
			if err != nil {
				return err
			}
			db, cleanup, err := ioc.InitDB(e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer cleanup()
			repo, err := ioc.InitAssetRepository(cmd.Context(), db, e.registry, e.cfg)
			if err != nil {
				return err
			}
			total, err := repo.CountByIDs(cmd.Context(), opts.kind, ids)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.kind, "kind", "", "只统计指定类型的资产")
	return cmd
}

func newNodesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes [key...]",
		Short: "按 cmdb_key 查询图节点",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := readLines(cmd.InOrStdin(), opts.inputPath, args)
			if err != nil {
				return err
			}
			e, err := setup(opts)
			if err != nil {
				return err
			}
			client, cleanup, err := ioc.InitGraphClient(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			repo, err := ioc.InitNodeRepository(client, e.registry, e.cfg)
			if err != nil {
				return err
			}
			nodes, err := repo.FindByKeys(cmd.Context(), opts.labels, keys)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", n.CMDBKey, strings.Join(n.Labels, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.labels, "label", nil, "限定节点标签")
	return cmd
}

func newPurgeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "立即执行一次过期节点清理",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			client, cleanup, err := ioc.InitGraphClient(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			repo, err := ioc.InitNodeRepository(client, e.registry, e.cfg)
			if err != nil {
				return err
			}
			deleted, err := repo.PurgeStale(cmd.Context(), e.cfg.Purge.RetentionRunID, e.cfg.Purge.Limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d nodes\n", deleted)
			return nil
		},
	}
}

// readLines 合并命令行参数与输入文件中的非空行。
func readLines(stdin io.Reader, path string, args []string) ([]string, error) {
	lines := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			lines = append(lines, a)
		}
	}
	if path == "" {
		return lines, nil
	}
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("打开输入文件失败: %w", err)
		}
		defer f.Close()
		r = f
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取输入失败: %w", err)
	}
	return lines, nil
}

func readIDs(stdin io.Reader, path string, args []string) ([]int64, error) {
	lines, err := readLines(stdin, path, args)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("非法 ID %q: %w", line, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package main

import (
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/viper"

	"github.com/afumu/prodsum/internal/dataset"
	"github.com/afumu/prodsum/internal/ingest"
	"github.com/afumu/prodsum/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// --- 加载配置 ---
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 文件不存在，尝试创建默认配置
			if err := viper.SafeWriteConfig(); err != nil {
				log.Printf("无法创建默认 .env 文件: %v", err)
			} else {
				log.Println("已自动创建并初始化 .env 配置文件")
			}
		} else {
			log.Printf("注意: 读取 .env 文件出错: %v. 将使用默认值或环境变量。", err)
		}
	}

	// --- 配置 ---
	// workDir 用于存放投递目录等工作文件。
	workDir := viper.GetString("WORK_DIR")
	if workDir == "" {
		workDir = "data"
	}

	// 端口配置：优先使用 LISTEN_ADDR，其次使用 PORT，最后默认 127.0.0.1:5300
	listenAddr := viper.GetString("LISTEN_ADDR")
	port := viper.GetString("PORT")
	if listenAddr == "" {
		if port != "" {
			listenAddr = "127.0.0.1:" + port
		} else {
			listenAddr = "127.0.0.1:5300"
		}
	}

	log.Printf("使用工作目录: %s", workDir)

	// 确保工作目录存在
	if err := os.MkdirAll(workDir, 0755); err != nil {
		log.Fatalf("创建工作目录失败: %v", err)
	}

	// --- 初始化数据集注册表 ---
	registry := dataset.NewRegistry()

	// --- 可选：监控投递目录，自动摄入新文件 ---
	var watcher *ingest.Watcher
	if watchDir := viper.GetString("WATCH_DIR"); watchDir != "" {
		if err := os.MkdirAll(watchDir, 0755); err != nil {
			log.Fatalf("创建投递目录失败: %v", err)
		}
		w, err := ingest.NewWatcher(watchDir)
		if err != nil {
			log.Fatalf("初始化投递目录监控失败: %v", err)
		}
		watchDataset := registry.Add("投递目录", nil)
		w.AddCallback(func(result *ingest.FileResult) {
			if err := registry.Append(watchDataset.ID, result); err != nil {
				log.Printf("自动摄入 %s 失败: %v", result.Name, err)
			}
		})
		w.Start()
		watcher = w
		log.Printf("投递目录监控已启动: %s", watchDir)
	}

	// --- 初始化 Web 服务 ---
	webConf := web.Config{
		ListenAddr:        listenAddr,
		StaticDir:         viper.GetString("STATIC_DIR"),
		SentinelCollector: viper.GetString("FILTER_SENTINEL_COLLECTOR"),
		DebtorPlaceholder: viper.GetString("FILTER_DEBTOR_PLACEHOLDER"),
		PTPDupPattern:     viper.GetString("FILTER_PTP_DUP_PATTERN"),
		NoisePhrases:      viper.GetStringSlice("FILTER_NOISE_PHRASES"),
		ExcludeWeekday:    viper.GetString("FILTER_EXCLUDE_WEEKDAY"),
		RemarkTypes:       viper.GetStringSlice("REMARK_TYPES"),
		FailedSMSRule:     viper.GetString("FAILED_SMS_RULE"),
		DateRangeScope:    viper.GetString("DATE_RANGE_SCOPE"),
	}
	webService := web.NewService(registry, &webConf)

	// --- 启动服务 ---
	if err := webService.Start(); err != nil {
		log.Fatalf("启动 web 服务失败: %v", err)
	}

	// 打印访问地址并自动打开浏览器
	baseURL := listenAddr
	if len(baseURL) > 0 && baseURL[0] == ':' {
		baseURL = "127.0.0.1" + baseURL
	}
	url := "http://" + baseURL
	log.Printf("服务已启动，请访问: %s", url)
	openBrowser(url)

	// --- 等待中断信号以实现优雅关闭 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("接收到关闭信号，正在关闭服务...")

	// --- 关闭服务 ---
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			log.Printf("关闭投递目录监控时出错: %v", err)
		}
	}
	if err := webService.Stop(); err != nil {
		log.Fatalf("关闭 web 服务时出错: %v", err)
	}
	log.Println("服务已成功关闭。")
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = nil
	}
	if err != nil {
		log.Printf("无法自动打开浏览器: %v", err)
	}
}

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"helpboard/config"
	"helpboard/internal/app"
	"helpboard/internal/function"
	"helpboard/pkg/logger"
)

// 从标准输入读取一个事件，结果写到标准输出
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	logger := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
	defer logger.Close()

	var ev function.Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		logger.Fatal("解析事件失败", err)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("初始化应用失败", err)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := function.NewAdapter(application.Router, cfg.FunctionComponent).Handle(ctx, ev)
	if err != nil {
		logger.Error("处理事件失败", err)
		res = &function.Result{
			StatusCode: 400,
			Headers:    map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			Body:       `{"error":"Неверный запрос"}`,
		}
	}

	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		logger.Error("输出结果失败", err)
	}
}

// 手动重训聊天机器人意图模型脚本
//
// 服务启动时会按训练文件的修改时间自动复用或重训模型，管理员也可以
// 通过 POST /api/chatbot/reload 在线重训。此脚本用于部署前离线生成
// 模型缓存，避免首次启动时训练。
//
// 用法: go run scripts/retrain_chatbot.go

package main

import (
	"edu_lms_backend/internal/config"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/pkg/logger"
	"log"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	classifier, err := service.NewIntentClassifier(cfg.Chatbot)
	if err != nil {
		log.Fatalf("加载训练数据失败: %v", err)
	}

	log.Println("强制重训意图模型...")
	if err := classifier.Reload(); err != nil {
		log.Fatalf("重训失败: %v", err)
	}
	log.Printf("完成！意图数: %d", len(classifier.Intents()))
}

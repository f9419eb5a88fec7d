package handlers

// uiMessages holds the short user-facing strings per locale. API errors
// additionally surface the underlying status/code for diagnosis.
var uiMessages = map[string]map[string]string{
	"zh-CN": {
		"missing_credential": "请先设置 API 密钥",
		"missing_title":      "请输入标题",
		"unknown_theme":      "未知的主题",
		"generation_failed":  "生成失败，请重试",
		"history_not_found":  "历史记录不存在",
		"task_not_found":     "任务不存在",
		"cancel_note":        "已停止本地跟踪；远程任务仍会继续执行",
	},
	"en": {
		"missing_credential": "set an API credential first",
		"missing_title":      "a title is required",
		"unknown_theme":      "unknown theme",
		"generation_failed":  "generation failed, please retry",
		"history_not_found":  "history entry not found",
		"task_not_found":     "task not found",
		"cancel_note":        "local tracking stopped; the remote job keeps running",
	},
}

func localize(locale, key string) string {
	if msgs, ok := uiMessages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := uiMessages["en"][key]; ok {
		return msg
	}
	return key
}

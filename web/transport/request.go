package transport

// ReportQuery 定义了报表构建的通用查询参数。
type ReportQuery struct {
	RemarkTypes    string `form:"remark_types"`     // 逗号分隔的 remark type 白名单
	FailedSMSRule  string `form:"failed_sms_rule"`  // null_response | strict_text
	DateRangeScope string `form:"date_range_scope"` // global | per_client
	ExcludeWeekday string `form:"exclude_weekday"`  // 星期几英文名，如 Sunday
}

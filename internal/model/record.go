package model

import "time"

// ActivityRecord 一条规范化后的催收/短信活动记录。
// 规范化后每条记录都唯一属于一个 (Date, Client, Collector) 三元组，
// Date 只保留日期部分（时间被截断到零点）。
type ActivityRecord struct {
	Date       time.Time `json:"date"`
	Client     string    `json:"client"`
	Collector  string    `json:"collector"` // 源数据列名为 REMARK BY
	RemarkType string    `json:"remarkType"`
	CallStatus string    `json:"callStatus"`
	AccountNo  string    `json:"accountNo"`
	Status     string    `json:"status"` // 自由文本，可能包含 "PTP"
	Debtor     string    `json:"debtor"`
	Remark     string    `json:"remark"`
	CardNo     string    `json:"cardNo"`
	PTPAmount  float64   `json:"ptpAmount"` // 0 表示没有承诺还款
	Balance    float64   `json:"balance"`

	// TalkTime 为 nil 表示源行的通话时长列为空。
	// 分组是否参与汇总取决于组内是否存在非空通话时长，所以必须区分 0 和缺失。
	TalkTime *int `json:"talkTime"`

	// ColStatus 为 nil 表示该行没有短信状态；文本可能包含 DELIVERED/FAILED。
	ColStatus *string `json:"colStatus"`

	// SMSResponseAt 为 nil 表示短信送达状态从未被确认。
	SMSResponseAt *time.Time `json:"smsResponseAt"`
}

// 常用的 RemarkType 取值。
const (
	RemarkOutgoing   = "Outgoing"
	RemarkPredictive = "Predictive"
	RemarkFollowUp   = "Follow Up"
)

// CallStatusConnected 表示电话已接通。
const CallStatusConnected = "CONNECTED"

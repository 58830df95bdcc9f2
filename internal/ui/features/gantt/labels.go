package gantt

import (
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapgantt/internal/chart"
	"github.com/leapstack-labs/leapgantt/internal/ui/features/gantt/types"
)

// English page labels.
var English = types.Labels{
	Lang:        "en",
	Title:       "Project Gantt Chart",
	DataInput:   "Data input",
	ChooseFile:  "Choose a CSV file",
	UploadHint:  "Columns: seq, step, resource, start, end (DD/MM/YYYY), kind (Task or Milestone)",
	Submit:      "Upload",
	Reset:       "Clear",
	ProjectData: "Project data",
	Overview:    "Project overview",
	Tasks:       "Tasks",
	Milestones:  "Milestones",
	Start:       "Start date",
	End:         "End date",
	Duration:    "Duration",
	Days:        "days",
	Empty:       "Upload a CSV file to see the chart.",
	Error:       "Error",
	NoFile:      "no file selected",
	TooLarge:    "file is too large",
	Download:    "Download",
	Columns: types.Columns{
		Seq:      "Seq",
		Step:     "Step",
		Resource: "Resource",
		Start:    "Start",
		End:      "End",
		Kind:     "Kind",
	},
	Figure: chart.EnglishLabels,
}

// Chinese page labels.
var Chinese = types.Labels{
	Lang:        "zh",
	Title:       "项目进度甘特图",
	DataInput:   "数据输入",
	ChooseFile:  "选择CSV文件",
	UploadHint:  "列: 工作序号, 工作步骤, 负责人, 开始时间, 结束时间 (DD/MM/YYYY), 备注 (Task 或 Milestones)",
	Submit:      "上传",
	Reset:       "清除",
	ProjectData: "项目数据",
	Overview:    "项目概要",
	Tasks:       "总任务数",
	Milestones:  "里程碑数",
	Start:       "项目开始日期",
	End:         "项目结束日期",
	Duration:    "项目持续时间",
	Days:        "天",
	Empty:       "请上传CSV文件以生成甘特图。",
	Error:       "错误",
	NoFile:      "未选择文件",
	TooLarge:    "文件过大",
	Download:    "下载",
	Columns: types.Columns{
		Seq:      "工作序号",
		Step:     "工作步骤",
		Resource: "负责人",
		Start:    "开始时间",
		End:      "结束时间",
		Kind:     "备注",
	},
	Figure: chart.FigureLabels{
		XAxis:     "日期",
		YAxis:     "工作内容",
		Task:      "任务",
		Milestone: "里程碑",
		Start:     "开始",
		End:       "结束",
		Date:      "日期",
		Resource:  "负责人",
	},
}

var (
	supported = []language.Tag{language.English, language.Chinese}
	matcher   = language.NewMatcher(supported)
)

// Negotiate picks the labels for a request. A configured "en" or "zh" wins;
// otherwise the Accept-Language header decides, falling back to English.
func Negotiate(configured, acceptLanguage string) types.Labels {
	switch configured {
	case "en":
		return English
	case "zh":
		return Chinese
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	if supported[idx] == language.Chinese {
		return Chinese
	}
	return English
}

package processor

// keywordWeight 热度关键词及权重（2–10），品牌、突破性事件与出口管制权重最高
type keywordWeight struct {
	Keyword string
	Weight  int
}

var keywordWeights = []keywordWeight{
	// 模型与厂商
	{"openai", 10}, {"gpt-5", 10}, {"chatgpt", 9}, {"gpt", 8}, {"deepseek", 9}, {"claude", 8},
	{"anthropic", 8}, {"gemini", 8}, {"谷歌", 7}, {"google", 7}, {"微软", 7}, {"microsoft", 7},
	{"英伟达", 9}, {"nvidia", 9}, {"华为", 8}, {"huawei", 8}, {"台积电", 8}, {"tsmc", 8},
	{"asml", 8}, {"amd", 7}, {"英特尔", 7}, {"昇腾", 7}, {"寒武纪", 7}, {"cambricon", 7},
	{"百度", 6}, {"baidu", 6}, {"文心", 6}, {"阿里", 6}, {"alibaba", 6}, {"通义", 6},
	{"qwen", 6}, {"腾讯", 6}, {"tencent", 6}, {"字节", 6}, {"bytedance", 6}, {"豆包", 6},
	{"kimi", 6}, {"月之暗面", 6}, {"智谱", 6}, {"llama", 6}, {"meta", 5}, {"特斯拉", 6},
	{"tesla", 6}, {"optimus", 6}, {"宇树", 6}, {"unitree", 6}, {"三星", 5}, {"samsung", 5},
	{"高通", 5}, {"qualcomm", 5}, {"apple", 5}, {"苹果", 5},

	// 突破与发布
	{"突破", 9}, {"breakthrough", 9}, {"agi", 9}, {"通用人工智能", 9}, {"重磅", 7}, {"首次", 6},
	{"开源", 6}, {"open source", 6}, {"open-source", 6}, {"大模型", 7}, {"llm", 6}, {"多模态", 6},
	{"multimodal", 6}, {"推理", 5}, {"reasoning", 5}, {"智能体", 6}, {"agent", 5}, {"发布", 4},
	{"launch", 4}, {"unveil", 5}, {"推出", 4}, {"record", 4}, {"纪录", 4},

	// 出口管制与美国政策
	{"出口管制", 10}, {"export control", 10}, {"实体清单", 10}, {"entity list", 10}, {"制裁", 9},
	{"sanction", 9}, {"export ban", 9}, {"禁令", 8}, {"chips act", 8}, {"芯片法案", 8},
	{"关税", 7}, {"tariff", 7},

	// 芯片与算力
	{"芯片", 6}, {"chip", 6}, {"半导体", 6}, {"semiconductor", 6}, {"gpu", 6}, {"h100", 8},
	{"h200", 8}, {"b200", 8}, {"blackwell", 8}, {"hbm", 7}, {"光刻机", 8}, {"先进制程", 7},
	{"2nm", 6}, {"3nm", 6}, {"晶圆", 5}, {"wafer", 5}, {"算力", 6}, {"compute", 4},
	{"数据中心", 5}, {"data center", 5}, {"超算", 5}, {"supercomputer", 5},

	// 具身智能
	{"人形机器人", 7}, {"humanoid", 7}, {"具身智能", 7}, {"embodied", 6}, {"机器人", 5},
	{"robot", 5}, {"自动驾驶", 6}, {"self-driving", 6}, {"autonomous", 5}, {"robotaxi", 6},

	// 政策监管
	{"政策", 4}, {"policy", 4}, {"监管", 5}, {"regulation", 5}, {"法规", 4}, {"立法", 5},
	{"legislation", 5}, {"安全", 3}, {"safety", 3},

	// 资本
	{"融资", 6}, {"funding", 5}, {"投资", 4}, {"investment", 4}, {"估值", 5}, {"valuation", 5},
	{"ipo", 6}, {"上市", 5}, {"收购", 6}, {"acquisition", 6}, {"亿美元", 5}, {"billion", 5},

	// 人物、观点与研究
	{"黄仁勋", 7}, {"jensen huang", 7}, {"奥特曼", 7}, {"altman", 7}, {"马斯克", 6}, {"musk", 6},
	{"李开复", 5}, {"吴恩达", 5}, {"hinton", 5}, {"lecun", 5}, {"李飞飞", 5}, {"专家", 3},
	{"expert", 3}, {"预测", 3}, {"predict", 3}, {"报告", 3}, {"report", 3}, {"研究", 3},
	{"research", 3}, {"论文", 3}, {"paper", 2}, {"白皮书", 4}, {"whitepaper", 4}, {"榜单", 4},
	{"benchmark", 4}, {"评测", 3},
}

// sourceAuthority 高可信度来源权重（3–4），未登记来源为 1
var sourceAuthority = map[string]int{
	"mit technology review": 4,
	"nature":                4,
	"reuters":               4,
	"ieee spectrum":         4,
	"bloomberg":             4,
	"财新":                    4,
	"techcrunch":            3,
	"the verge":             3,
	"venturebeat":           3,
	"tom's hardware":        3,
	"wired":                 3,
	"机器之心":                  3,
	"量子位":                   3,
	"36氪":                   3,
	"雷锋网":                   3,
	"新智元":                   3,
	"钛媒体":                   3,
	"it之家":                  3,
}

const defaultSourceAuthority = 1

package processor

import "strings"

// Rule 一个主题桶及其关键词（中英文混合，统一小写匹配）
type Rule struct {
	Category Category
	Keywords []string
}

// 规则顺序即优先级：先命中者胜出。关键词集合之间存在重叠，
// 例如“芯片法案”会先命中智能芯片，而不会落到美国芯片政策。
var defaultRules = []Rule{
	{CategoryAIApplication, []string{
		"chatgpt", "gpt", "openai", "claude", "gemini", "llama", "deepseek", "qwen", "通义", "文心",
		"kimi", "豆包", "sora", "midjourney", "大模型", "llm", "语言模型", "language model",
		"chatbot", "聊天机器人", "assistant", "助手", "copilot", "aigc", "生成式", "generative", "智能体", "agent",
	}},
	{CategorySmartChip, []string{
		"芯片", "chip", "半导体", "semiconductor", "gpu", "nvidia", "英伟达", "amd", "英特尔", "tsmc",
		"台积电", "晶圆", "wafer", "昇腾", "寒武纪", "cambricon", "光刻", "lithography", "asml", "hbm",
		"h100", "h200", "blackwell", "处理器", "processor", "算力卡",
	}},
	{CategoryEmbodiedAI, []string{
		"机器人", "robot", "人形", "humanoid", "具身", "embodied", "自动驾驶", "无人驾驶", "autonomous",
		"self-driving", "driverless", "robotaxi", "optimus", "宇树", "unitree", "机械臂",
	}},
	{CategoryComputingPolicy, []string{
		"政策", "policy", "法规", "regulation", "regulator", "监管", "政府", "government", "算力",
		"数据中心", "data center", "东数西算", "工信部", "发改委", "规划", "立法", "legislation", "补贴", "subsid",
	}},
	{CategoryUSChipPolicy, []string{
		"出口管制", "export control", "实体清单", "entity list", "制裁", "sanction", "禁令", "export ban",
		"chips act", "芯片法案", "商务部", "commerce department", "bureau of industry and security",
		"白宫", "white house", "关税", "tariff",
	}},
	{CategoryExpertOpinion, []string{
		"专家", "expert", "观点", "opinion", "采访", "专访", "访谈", "interview", "预测", "predict",
		"展望", "outlook", "李开复", "吴恩达", "andrew ng", "hinton", "lecun", "李飞飞",
	}},
	{CategoryResearchReport, []string{
		"报告", "report", "研究", "study", "research", "调查", "survey", "白皮书", "whitepaper",
		"white paper", "论文", "paper", "arxiv", "数据显示", "榜单", "benchmark",
	}},
}

// DefaultRules 返回内置规则的副本
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classifier 基于有序关键词规则的确定性分类器，只看标题
type Classifier struct {
	rules    []Rule
	fallback Category
}

func NewClassifier() *Classifier {
	return NewClassifierWithRules(defaultRules, CategoryAIApplication)
}

func NewClassifierWithRules(rules []Rule, fallback Category) *Classifier {
	lowered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		lowered = append(lowered, Rule{Category: r.Category, Keywords: kws})
	}
	return &Classifier{rules: lowered, fallback: fallback}
}

func (c *Classifier) Classify(title string) Category {
	text := strings.ToLower(title)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Category
			}
		}
	}
	return c.fallback
}

func (c *Classifier) ClassifyAll(items []Article) {
	for i := range items {
		items[i].Category = c.Classify(items[i].Title)
	}
}

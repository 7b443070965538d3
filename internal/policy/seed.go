package policy

import "github.com/LJTian/AIPulse/internal/storage"

// 内置政策参考数据，库中为空时写入
var seedPolicies = []storage.ChipPolicy{
	{
		ID:       "us-chips-act-2022",
		Title:    "芯片与科学法案（CHIPS and Science Act）",
		Date:     "2022-08-09",
		Summary:  "美国拨款约 527 亿美元补贴本土半导体制造与研发，并对受补贴企业在中国扩产设限。",
		Keywords: []string{"芯片法案", "CHIPS Act", "补贴", "本土制造", "护栏条款"},
		Content:  "法案包含 390 亿美元制造业激励、110 亿美元研发投入及 25% 投资税收抵免。获得补贴的企业十年内不得在中国等受关注国家实质性扩大先进制程产能。",
		Impact:   "推动台积电、三星、英特尔在美建厂，全球产能布局向北美倾斜。",
		Category: "产业扶持",
	},
	{
		ID:       "us-bis-2022-10-07",
		Title:    "BIS 先进计算与半导体制造出口管制新规",
		Date:     "2022-10-07",
		Summary:  "美国商务部限制向中国出口高性能 AI 芯片及先进制程半导体设备，并限制美籍人员支持相关工厂。",
		Keywords: []string{"出口管制", "BIS", "先进计算", "A100", "半导体设备", "Export Controls"},
		Content:  "新规以算力与互联带宽阈值界定受控芯片，覆盖 16/14nm 及以下逻辑、18nm 半间距及以下 DRAM、128 层及以上 NAND 的制造设备。",
		Impact:   "英伟达推出 A800/H800 等特供型号，国内加速国产 GPU 与设备替代。",
		Category: "美国出口管制",
	},
	{
		ID:       "us-bis-2023-10-17",
		Title:    "BIS 更新先进计算芯片出口管制规则",
		Date:     "2023-10-17",
		Summary:  "以总处理性能与性能密度取代带宽阈值，A800、H800 等特供芯片被纳入管制，并扩大至更多国家。",
		Keywords: []string{"出口管制", "BIS", "H800", "性能密度", "Export Controls"},
		Content:  "规则引入 TPP 与性能密度指标，新增 21 个国家的许可要求，堵住通过第三国转运的渠道，同时将多家中国 GPU 企业列入实体清单。",
		Impact:   "英伟达再推 H20 等降规格型号，国内大模型训练算力供给进一步收紧。",
		Category: "美国出口管制",
	},
	{
		ID:       "us-bis-2024-12-02",
		Title:    "BIS 扩大半导体设备与高带宽内存管制",
		Date:     "2024-12-02",
		Summary:  "新增 24 类制造设备、3 类软件工具及 HBM 出口限制，同时将 140 家实体列入实体清单。",
		Keywords: []string{"HBM", "高带宽内存", "实体清单", "Entity List", "半导体设备"},
		Content:  "规则首次单独管制高带宽内存，并扩大外国直接产品规则适用范围，覆盖更多含美国技术的境外设备。",
		Impact:   "国内存储与设备厂商承压，HBM 国产化进程受到关注。",
		Category: "美国出口管制",
	},
	{
		ID:       "us-ai-diffusion-2025-01",
		Title:    "人工智能扩散框架（AI Diffusion Rule）",
		Date:     "2025-01-13",
		Summary:  "按三级国家分层管理 AI 芯片与闭源模型权重出口，后于 2025 年 5 月被撤销。",
		Keywords: []string{"AI Diffusion", "扩散框架", "模型权重", "出口管制", "分级许可"},
		Content:  "框架将全球分为三个层级：盟友不受限，多数国家受算力配额约束，受关注国家全面禁止，同时首次对前沿模型权重实施管控。",
		Impact:   "引发云厂商与芯片企业强烈反对，显示美国对 AI 算力外溢的管控思路。",
		Category: "美国出口管制",
	},
	{
		ID:       "cn-east-data-west-compute-2022",
		Title:    "“东数西算”工程全面启动",
		Date:     "2022-02-17",
		Summary:  "国家发展改革委等部门批复建设 8 个国家算力枢纽节点与 10 个国家数据中心集群。",
		Keywords: []string{"东数西算", "算力枢纽", "数据中心", "算力网络"},
		Content:  "工程引导东部算力需求有序向西部转移，优化数据中心布局，推动绿色低碳算力基础设施建设。",
		Impact:   "西部数据中心投资加快，带动服务器、网络与能源配套产业链。",
		Category: "国内算力政策",
	},
	{
		ID:       "cn-computing-infra-plan-2023",
		Title:    "算力基础设施高质量发展行动计划",
		Date:     "2023-10-08",
		Summary:  "工信部等六部门提出到 2025 年算力规模超过 300 EFLOPS，智能算力占比达到 35%。",
		Keywords: []string{"算力", "智能算力", "行动计划", "工信部", "EFLOPS"},
		Content:  "计划围绕计算力、运载力、存储力与应用赋能四个方面部署重点任务，推进算力互联互通与国产化算力芯片应用。",
		Impact:   "为国产 AI 芯片与智算中心建设提供明确的政策预期。",
		Category: "国内算力政策",
	},
}

// Seed 返回内置政策的副本
func Seed() []storage.ChipPolicy {
	out := make([]storage.ChipPolicy, len(seedPolicies))
	for i, p := range seedPolicies {
		p.Keywords = append([]string(nil), p.Keywords...)
		out[i] = p
	}
	return out
}

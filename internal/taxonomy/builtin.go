package taxonomy

import "github.com/jonathan/job-matcher/internal/types"

// Direction names
const (
	Backend    = "backend"
	Frontend   = "frontend"
	Fullstack  = "fullstack"
	Mobile     = "mobile"
	QA         = "qa"
	DevOps     = "devops"
	Data       = "data"
	AI         = "ai"
	Product    = "product"
	Design     = "design"
	Project    = "project"
	Operations = "operations"
	Sales      = "sales"
	HR         = "hr"
	Finance    = "finance"
	Security   = "security"
	Architect  = "architect"
	DBA        = "dba"
)

func builtin() *Tables {
	return &Tables{
		SkillCategories: []SkillCategory{
			{Name: "languages", Skills: []string{
				"Python", "Java", "JavaScript", "TypeScript", "Go", "Golang", "C++", "C#",
				"Ruby", "PHP", "Swift", "Kotlin", "Rust", "Scala", "R", "Matlab", "Shell",
				"Bash", "SQL", "HTML", "CSS",
			}},
			{Name: "backend_frameworks", Skills: []string{
				"Django", "FastAPI", "Flask", "Spring", "SpringBoot", "Express", "Node.js",
				"Koa", "Gin", "Beego", "Rails", "Laravel", "ASP.NET",
			}},
			{Name: "frontend_frameworks", Skills: []string{
				"React", "Vue", "Angular", "Next.js", "Nuxt.js", "jQuery", "Bootstrap",
				"Tailwind", "Ant Design", "Element UI", "uni-app", "微信小程序",
			}},
			{Name: "databases", Skills: []string{
				"MySQL", "PostgreSQL", "MongoDB", "Redis", "Oracle", "SQL Server",
				"Elasticsearch", "Cassandra", "HBase", "ClickHouse", "TiDB",
			}},
			{Name: "middleware", Skills: []string{
				"Kafka", "RabbitMQ", "RocketMQ", "Nginx", "Docker", "Kubernetes", "K8s",
				"Jenkins", "Git", "SVN", "Maven", "Gradle",
			}},
			{Name: "cloud", Skills: []string{
				"AWS", "Azure", "GCP", "阿里云", "腾讯云", "华为云",
			}},
			{Name: "data_ai", Skills: []string{
				"Hadoop", "Spark", "Flink", "TensorFlow", "PyTorch", "Keras",
				"Scikit-learn", "Pandas", "NumPy", "OpenCV",
			}},
		},
		SkillAliases: map[string]string{
			"k8s":         "kubernetes",
			"js":          "javascript",
			"ts":          "typescript",
			"py":          "python",
			"golang":      "go",
			"react.js":    "react",
			"reactjs":     "react",
			"vue.js":      "vue",
			"vuejs":       "vue",
			"node.js":     "nodejs",
			"node":        "nodejs",
			"pg":          "postgresql",
			"postgres":    "postgresql",
			"mongo":       "mongodb",
			"es":          "elasticsearch",
			"springboot":  "spring boot",
			"spring-boot": "spring boot",
			"fastapi":     "fast api",
		},
		Companies: []string{
			"腾讯", "阿里巴巴", "阿里", "字节跳动", "百度", "美团", "京东", "网易", "滴滴",
			"小米", "华为", "OPPO", "VIVO", "拼多多", "快手", "哔哩哔哩", "B站", "蚂蚁集团",
			"蚂蚁金服", "顺丰", "携程", "同程", "去哪儿", "新浪", "搜狐", "360", "小红书",
			"知乎", "微博", "CSDN",
		},
		Universities: []string{
			"清华大学", "北京大学", "复旦大学", "上海交通大学", "浙江大学", "南京大学",
			"中国科学技术大学", "中科大", "哈尔滨工业大学", "哈工大", "西安交通大学",
			"华中科技大学", "武汉大学", "同济大学", "北京航空航天大学", "北航", "天津大学",
			"南开大学", "东南大学", "中山大学", "厦门大学", "北京理工大学", "北理工",
			"电子科技大学", "西北工业大学", "中南大学",
		},
		Cities: []string{
			"北京", "上海", "广州", "深圳", "杭州", "成都", "武汉", "南京", "西安", "苏州",
			"重庆", "天津", "长沙", "厦门", "青岛", "大连",
		},
		Certifications: []string{
			"PMP", "CPA", "CFA", "CISSP", "AWS", "Azure", "GCP", "软考", "系统架构师",
			"网络工程师", "信息系统项目管理师", "英语四级", "英语六级", "CET-4", "CET-6",
			"雅思", "托福", "IELTS", "TOEFL",
		},
		Benefits: []string{
			"五险一金", "六险一金", "年终奖", "股票期权", "带薪年假", "弹性工作", "远程办公",
			"下午茶", "健身房", "免费午餐", "班车",
		},
		Directions: []Direction{
			{Name: Backend, Label: "后端开发", Technical: true, Keywords: []string{
				"后端", "服务端", "java", "python", "go", "golang", "php", "c++", "c#", ".net",
				"node", "spring", "django", "flask", "fastapi",
			}},
			{Name: Frontend, Label: "前端开发", Technical: true, Keywords: []string{
				"前端", "web", "h5", "javascript", "typescript", "react", "vue", "angular",
				"css", "html", "小程序",
			}},
			{Name: Fullstack, Label: "全栈开发", Technical: true, Keywords: []string{
				"全栈", "full stack", "fullstack",
			}},
			{Name: Mobile, Label: "移动开发", Technical: true, Keywords: []string{
				"ios", "android", "移动", "flutter", "react native", "app开发", "客户端",
			}},
			{Name: QA, Label: "测试", Technical: true, Keywords: []string{
				"测试", "qa", "quality", "自动化测试", "测试开发", "sdet",
			}},
			{Name: DevOps, Label: "运维", Technical: true, Keywords: []string{
				"运维", "devops", "sre", "系统管理", "云计算", "k8s", "docker", "linux",
			}},
			{Name: Data, Label: "数据", Technical: true, Keywords: []string{
				"数据", "etl", "hadoop", "spark", "flink", "数仓", "大数据", "data engineer",
			}},
			{Name: AI, Label: "算法", Technical: true, Keywords: []string{
				"算法", "ai", "机器学习", "深度学习", "nlp", "cv", "推荐", "搜索", "ml",
				"deep learning",
			}},
			{Name: Product, Label: "产品", Keywords: []string{
				"产品", "pm", "product manager", "产品经理", "产品运营",
			}},
			{Name: Design, Label: "设计", Keywords: []string{
				"设计", "ui", "ux", "视觉", "交互", "美术",
			}},
			{Name: Project, Label: "项目经理", Keywords: []string{
				"项目经理", "pmo", "项目管理", "scrum master",
			}},
			{Name: Operations, Label: "运营", Keywords: []string{
				"运营", "用户运营", "内容运营", "活动运营", "增长",
			}},
			{Name: Sales, Label: "销售", Keywords: []string{
				"销售", "商务", "bd", "客户经理",
			}},
			{Name: HR, Label: "HR", Keywords: []string{
				"hr", "人力", "招聘", "薪酬", "hrbp",
			}},
			{Name: Finance, Label: "财务", Keywords: []string{
				"财务", "会计", "审计", "税务",
			}},
			{Name: Security, Label: "安全", Technical: true, Keywords: []string{
				"安全", "security", "渗透", "攻防",
			}},
			{Name: Architect, Label: "架构", Technical: true, Keywords: []string{
				"架构", "architect", "技术专家", "技术总监",
			}},
			{Name: DBA, Label: "DBA", Technical: true, Keywords: []string{
				"dba", "数据库管理", "mysql", "postgresql", "oracle", "mongodb",
			}},
		},
		// precedence order: the first keyword found in a text wins
		Education: []EducationKeyword{
			{Keyword: "博士", Level: types.EducationDoctorate},
			{Keyword: "硕士", Level: types.EducationMaster},
			{Keyword: "研究生", Level: types.EducationMaster},
			{Keyword: "本科", Level: types.EducationBachelor},
			{Keyword: "学士", Level: types.EducationBachelor},
			{Keyword: "专科", Level: types.EducationAssociate},
			{Keyword: "大专", Level: types.EducationAssociate},
			{Keyword: "高中", Level: types.EducationHighSchool},
			{Keyword: "不限", Level: types.EducationUnknown},
		},
	}
}

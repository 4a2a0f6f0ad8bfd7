package config

// DefaultStack returns the built-in topology: the Supabase platform group and
// the local AI core stack, sharing one compose project. stack.yaml entries
// override these defaults; most installations run the topology as-is.
func DefaultStack() *StackConfig {
	return &StackConfig{
		Project:         DefaultProject,
		EnvFile:         ".env",
		PlatformDir:     "supabase/docker",
		SearchDir:       "searxng",
		DatabaseDataDir: "supabase/docker/volumes/db/data",
		Compose: ComposeFiles{
			Platform:               "supabase/docker/docker-compose.yml",
			Stack:                  "docker-compose.yml",
			PrivateOverride:        "docker-compose.override.private.yml",
			PublicOverride:         "docker-compose.override.public.yml",
			PublicPlatformOverride: "docker-compose.override.public.supabase.yml",
		},
		Services: []ServiceDefinition{
			// Platform group. The core stack connects to the platform's
			// database and auth endpoints during its own startup, so these
			// must be healthy first.
			{
				Name:         "db",
				Group:        GroupPlatform,
				RequiredVars: []string{"POSTGRES_PASSWORD", "JWT_SECRET"},
			},
			{
				Name:         "analytics",
				Group:        GroupPlatform,
				RequiredVars: []string{"LOGFLARE_PUBLIC_ACCESS_TOKEN", "LOGFLARE_PRIVATE_ACCESS_TOKEN"},
			},
			{
				Name:         "kong",
				Group:        GroupPlatform,
				Ports:        []int{8000},
				HostnameVar:  "SUPABASE_HOSTNAME",
				RequiredVars: []string{"ANON_KEY", "SERVICE_ROLE_KEY"},
				URL:          "http://localhost:8000",
			},
			{
				Name:         "auth",
				Group:        GroupPlatform,
				RequiredVars: []string{"JWT_SECRET"},
			},
			{Name: "rest", Group: GroupPlatform},
			{
				Name:         "studio",
				Group:        GroupPlatform,
				RequiredVars: []string{"DASHBOARD_USERNAME", "DASHBOARD_PASSWORD"},
			},
			{Name: "storage", Group: GroupPlatform},
			{
				Name:         "vault",
				Group:        GroupPlatform,
				RequiredVars: []string{"VAULT_ENC_KEY"},
			},

			// Core stack.
			{
				Name:                 "n8n",
				Group:                GroupCoreStack,
				RequiresHealthyGroup: GroupPlatform,
				Ports:                []int{5678},
				HostnameVar:          "N8N_HOSTNAME",
				RequiredVars:         []string{"N8N_ENCRYPTION_KEY", "N8N_USER_MANAGEMENT_JWT_SECRET"},
				URL:                  "http://localhost:5678",
			},
			{
				Name:        "open-webui",
				Group:       GroupCoreStack,
				Ports:       []int{3000},
				HostnameVar: "WEBUI_HOSTNAME",
				URL:         "http://localhost:3000",
			},
			{
				Name:        "flowise",
				Group:       GroupCoreStack,
				Ports:       []int{3001},
				HostnameVar: "FLOWISE_HOSTNAME",
				URL:         "http://localhost:3001",
			},
			{
				Name:     "ollama",
				Group:    GroupCoreStack,
				Profiles: []Profile{ProfileCPU, ProfileGPUNvidia, ProfileGPUAMD},
				Ports:    []int{11434},
			},
			{
				Name:  "qdrant",
				Group: GroupCoreStack,
				Ports: []int{6333},
			},
			{
				Name:         "neo4j",
				Group:        GroupCoreStack,
				Ports:        []int{7474, 7687},
				HostnameVar:  "NEO4J_HOSTNAME",
				RequiredVars: []string{"NEO4J_AUTH"},
				URL:          "http://localhost:7474",
			},
			{
				Name:      "caddy",
				Group:     GroupCoreStack,
				Ports:     []int{80, 443},
				Proxy:     true,
				Buildable: true,
			},
			{
				Name:                 "langfuse-web",
				Group:                GroupCoreStack,
				RequiresHealthyGroup: GroupPlatform,
				Ports:                []int{3002},
				HostnameVar:          "LANGFUSE_HOSTNAME",
				RequiredVars:         []string{"ENCRYPTION_KEY", "LANGFUSE_SALT", "NEXTAUTH_SECRET"},
				URL:                  "http://localhost:3002",
			},
			{
				Name:                 "langfuse-worker",
				Group:                GroupCoreStack,
				RequiresHealthyGroup: GroupPlatform,
				RequiredVars:         []string{"ENCRYPTION_KEY", "LANGFUSE_SALT", "CLICKHOUSE_PASSWORD"},
			},
			{
				Name:         "clickhouse",
				Group:        GroupCoreStack,
				Ports:        []int{8123},
				RequiredVars: []string{"CLICKHOUSE_PASSWORD"},
			},
			{
				Name:         "minio",
				Group:        GroupCoreStack,
				Ports:        []int{9010, 9011},
				RequiredVars: []string{"MINIO_ROOT_PASSWORD"},
			},
			{
				Name:  "redis",
				Group: GroupCoreStack,
				Ports: []int{6379},
			},
			{
				Name:        "searxng",
				Group:       GroupCoreStack,
				Ports:       []int{8081},
				HostnameVar: "SEARXNG_HOSTNAME",
				URL:         "http://localhost:8081",
			},
		},
	}
}

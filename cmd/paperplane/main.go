package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"

	"github.com/ivlev/paperplane/internal/config"
	"github.com/ivlev/paperplane/internal/director"
	"github.com/ivlev/paperplane/internal/engine"
	"github.com/ivlev/paperplane/internal/live"
	"github.com/ivlev/paperplane/internal/system"
	"github.com/ivlev/paperplane/internal/video"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML-файл конфигурации (флаги имеют приоритет)")
	windowPtr := flag.Bool("window", false, "Показать анимацию в окне вместо рендера видео")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	framesPtr := flag.String("frames", "", "Папка для PNG-кадров вместо видео")
	schedulePtr := flag.String("dump-schedule", "", "Сохранить расписание анимации в YAML ('auto' - в output/)")
	playPtr := flag.String("schedule", "", "Проиграть сохраненное расписание вместо встроенного")
	paperWPtr := flag.Float64("paper-width", 0, "Ширина листа")
	paperHPtr := flag.Float64("paper-height", 0, "Высота листа")
	widthPtr := flag.Int("width", 0, "Ширина видео (0 - по размеру листа)")
	heightPtr := flag.Int("height", 0, "Высота видео (0 - по размеру листа)")
	presetPtr := flag.String("preset", "", "Пресет формата: playground, 720p, 1080p")
	fpsPtr := flag.Int("fps", 0, "FPS")
	holdPtr := flag.Float64("hold", -1, "Сколько секунд держать последний кадр")
	ssPtr := flag.Int("supersample", 0, "Суперсэмплинг (1-4)")
	easingPtr := flag.String("easing", "", "Сглаживание: linear, ease-in-out")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - по числу ядер)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	zoomPtr := flag.Int("zoom", 0, "Масштаб окна")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	verbosePtr := flag.Bool("verbose", false, "Подробный лог рендерера")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка конфигурации: %v", err)
		}
		cfg = loaded
		fmt.Printf("[*] Конфигурация: %s\n", *configPtr)
	}

	// Флаги перекрывают файл
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			cfg.Window = *windowPtr
		case "output":
			cfg.OutputVideo = *outputPtr
		case "frames":
			cfg.FramesDir = *framesPtr
		case "dump-schedule":
			cfg.ScheduleOut = *schedulePtr
		case "schedule":
			cfg.ScheduleIn = *playPtr
		case "paper-width":
			cfg.PaperWidth = *paperWPtr
		case "paper-height":
			cfg.PaperHeight = *paperHPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "preset":
			cfg.Preset = *presetPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "hold":
			cfg.Hold = *holdPtr
		case "supersample":
			cfg.Supersample = *ssPtr
		case "easing":
			cfg.Easing = *easingPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "quality":
			cfg.Quality = *qualityPtr
		case "zoom":
			cfg.WindowZoom = *zoomPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "verbose":
			cfg.Verbose = *verbosePtr
		}
	})
	cfg.BuildVersion = version

	var script *director.Timeline
	if cfg.ScheduleIn != "" {
		tl, err := director.ReadTimeline(cfg.ScheduleIn)
		if err != nil {
			log.Fatalf("[-] Ошибка расписания: %v", err)
		}
		// расстояния сдвигов записаны под размер листа из файла
		cfg.PaperWidth, cfg.PaperHeight = tl.Width, tl.Height
		script = tl
		fmt.Printf("[*] Расписание: %s (%gx%g, %d шагов)\n", cfg.ScheduleIn, tl.Width, tl.Height, len(tl.Steps))
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	if cfg.Verbose {
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if cfg.Window {
		s := engine.NewSurface(cfg, engine.SystemClock)
		if script != nil {
			s.Play(script)
		}
		// окно запускает анимацию на первом тике; сохраняем именно ее
		s.OnStart(func(tl *director.Timeline) { dumpSchedule(cfg, tl) })
		if err := live.Run(s, "Paper Plane ("+version+")", cfg.WindowZoom); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	var enc video.FrameEncoder
	if cfg.FramesDir != "" {
		enc = video.NewPNGSequence(cfg.FramesDir)
	} else {
		if err := system.CheckFFmpeg(); err != nil {
			log.Fatalf("[-] Ошибка: %v. Используйте -frames для PNG-кадров", err)
		}
		if cfg.OutputVideo == "" {
			if err := os.MkdirAll("output", 0755); err != nil {
				log.Fatalf("[-] Не удалось создать папку output: %v", err)
			}
			timestamp := time.Now().Format("2006-01-02_15-04-05")
			cfg.OutputVideo = filepath.Join("output", fmt.Sprintf("paperplane_%s.mp4", timestamp))
		}
		if cfg.VideoEncoder == "libx264" {
			cfg.VideoEncoder = system.GetBestH264Encoder()
			if cfg.VideoEncoder != "libx264" {
				fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
			}
		}
		if cfg.Quality == 0 {
			cfg.Quality = video.DefaultQuality(cfg.VideoEncoder)
		}
		enc = video.NewFFmpegEncoder(cfg.OutputVideo)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.ReplayProject(cfg, enc, script)
	dumpSchedule(cfg, project.Surface.Timeline())
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	if cfg.FramesDir != "" {
		fmt.Printf("[+++] Успех! Кадры: %s\n", cfg.FramesDir)
	} else {
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	}
}

// dumpSchedule saves tl when -dump-schedule is set. Offline renders run on
// a fixed clock, so their reference is the frame clock epoch.
func dumpSchedule(cfg *config.Config, tl *director.Timeline) {
	if cfg.ScheduleOut == "" {
		return
	}

	path := cfg.ScheduleOut
	if path == "auto" {
		if err := os.MkdirAll("output", 0755); err != nil {
			fmt.Printf("[!] Не удалось создать папку output: %v\n", err)
			return
		}
		path = director.GenerateTimelinePath("output")
	}

	if err := director.WriteTimeline(tl, path); err != nil {
		fmt.Printf("[!] Ошибка сохранения расписания: %v\n", err)
		return
	}
	fmt.Printf("[*] Расписание сохранено: %s\n", path)
}

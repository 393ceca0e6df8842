package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/milk9111/arena/prefabs"
	"github.com/milk9111/arena/sim"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using flags and defaults")
	}

	seed := flag.Uint64("seed", 0, "random seed (0 picks one)")
	debug := flag.Bool("debug", false, "enable debug overlay and the boss hotkey (B)")
	prefabDir := flag.String("prefabs", "", "directory whose files override the embedded prefabs")
	watch := flag.Bool("watch", false, "reload enemies.yaml from the prefab directory when it changes")
	flag.Parse()

	if *seed == 0 {
		if v := os.Getenv("ARENA_SEED"); v != "" {
			s, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				log.Fatalf("ARENA_SEED: %v", err)
			}
			*seed = s
		}
	}
	if *seed == 0 {
		*seed = rand.Uint64()
	}
	if *prefabDir == "" {
		*prefabDir = os.Getenv("ARENA_PREFABS")
	}
	prefabs.SetDiskDir(*prefabDir)

	rng := rand.New(rand.NewPCG(*seed, *seed>>1|1))
	cfg, err := sim.LoadConfig(rng)
	if err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(cfg, *debug)
	if err != nil {
		log.Fatal(err)
	}

	if *watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir())
		if err != nil {
			log.Printf("prefabs: watch %s: %v", prefabs.DiskDir(), err)
		} else {
			defer w.Close()
			game.watcher = w
		}
	}

	log.Printf("arena: seed %d, prefabs from %s", *seed, prefabs.DiskDir())

	ebiten.SetWindowSize(int(cfg.Arena.Arena.Width), int(cfg.Arena.Arena.Height))
	ebiten.SetWindowTitle("arena")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// Options задает объемы и параметры синтетических данных
type Options struct {
	Customers int
	Products  int
	Sales     int
	Ads       int
	Tickets   int

	// Доля пустых ячеек и доля строк-дубликатов
	MissingProb   float64
	DuplicateProb float64

	Seed int64

	// Точка отсчета для дат, нулевое значение - текущее время
	Now time.Time

	// Писать файлы .csv.sz вместо .csv
	Compress bool
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		Customers:     1000,
		Products:      100,
		Sales:         10000,
		Ads:           500,
		Tickets:       200,
		MissingProb:   0.05,
		DuplicateProb: 0.05,
		Seed:          42,
	}
}

var (
	firstNames     = []string{"Anna", "Ivan", "Maria", "Oleg", "Elena", "Pavel", "Olga", "Dmitry", "Sofia", "Nikita", "Laura", "James"}
	lastNames      = []string{"Smith", "Ivanova", "Petrov", "Garcia", "Brown", "Sokolova", "Miller", "Volkov", "Wilson", "Orlova"}
	adjectives     = []string{"Super", "Ultra", "Mega", "Fashion", "Elegant", "Modern", "Classic", "Stylish", "Premium", "Affordable"}
	productTypes   = []string{"Skincare", "Bag", "Kitchenware", "Clothes", "Beauty", "Shoes", "Food", "Cosmetics", "Accessories", "Furniture", "Toys", "Groceries", "Snacks"}
	genders        = []string{"Male", "Female", "Other"}
	adSources      = []string{"Facebook", "Google Ads", "Instagram", "TikTok"}
	campaignWords  = []string{"Seamless", "Synergized", "Proactive", "Adaptive", "Focused", "Scalable", "Integrated", "Innovative"}
	campaignNouns  = []string{"solution", "framework", "paradigm", "initiative", "approach", "strategy", "platform", "matrix"}
	paymentMethods = []string{"Credit Card", "PayPal", "Bank Transfer", "Cash on Delivery"}
	paymentStatus  = []string{"Completed", "Pending", "Failed", "Refunded"}
	issueTypes     = []string{"Refund Request", "Order Delay", "Product Inquiry", "Account Issue"}
	resolutions    = []string{"Resolved", "Pending", "Escalated"}
)

const dateLayout = "2006-01-02"

// Generator пишет синтетические исходные CSV-файлы всех сущностей
type Generator struct {
	options Options
	rng     *rand.Rand
	now     time.Time
	logger  *utils.ETLLogger
}

// NewGenerator создает новый экземпляр Generator
func NewGenerator(options Options, logger *utils.ETLLogger) *Generator {
	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Generator{
		options: options,
		rng:     rand.New(rand.NewSource(options.Seed)),
		now:     now.Truncate(24 * time.Hour),
		logger:  logger,
	}
}

// Generate создает каталог dir и записывает в него шесть файлов.
// Возвращает количество строк каждого файла
func (g *Generator) Generate(dir string) (map[models.Entity]int, error) {
	o := g.options
	if o.Customers <= 0 || o.Products <= 0 || o.Sales <= 0 || o.Ads < 0 || o.Tickets < 0 {
		return nil, fmt.Errorf("некорректные объемы данных: %+v", o)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
	}

	customers := g.customers()
	products := g.products()
	sales := g.sales(customers, products)
	tables := map[models.Entity][][]string{
		models.Customers:         g.withDuplicates(customers),
		models.Products:          g.withDuplicates(products),
		models.SalesTransactions: g.withDuplicates(sales),
		models.Payments:          g.payments(customers, sales),
		models.MarketingAds:      g.withDuplicates(g.ads()),
		models.CustomerSupport:   g.withDuplicates(g.tickets(customers)),
	}

	counts := make(map[models.Entity]int, len(tables))
	for _, entity := range models.AllEntities {
		rows := tables[entity]
		if err := g.write(dir, entity, rows); err != nil {
			return nil, err
		}
		counts[entity] = len(rows)
		g.logger.Info("Сгенерировано %d строк %s", len(rows), entity)
	}
	return counts, nil
}

func (g *Generator) write(dir string, entity models.Entity, rows [][]string) error {
	schema, err := entity.Schema()
	if err != nil {
		return err
	}

	name := entity.String() + ".csv"
	if g.options.Compress {
		name += ".sz"
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("ошибка создания файла %s: %w", name, err)
	}
	defer f.Close()

	var out io.Writer = f
	var sw *snappy.Writer
	if g.options.Compress {
		sw = snappy.NewBufferedWriter(f)
		out = sw
	}

	w := csv.NewWriter(out)
	if err := w.Write(models.ColumnNames(schema)); err != nil {
		return fmt.Errorf("ошибка записи заголовка %s: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", name, err)
	}

	if sw != nil {
		if err := sw.Close(); err != nil {
			return fmt.Errorf("ошибка сжатия файла %s: %w", name, err)
		}
	}
	return f.Close()
}

// maybe возвращает пустую строку с вероятностью MissingProb
func (g *Generator) maybe(value string) string {
	if g.rng.Float64() < g.options.MissingProb {
		return ""
	}
	return value
}

// withDuplicates дописывает копии случайных строк
func (g *Generator) withDuplicates(rows [][]string) [][]string {
	n := int(float64(len(rows)) * g.options.DuplicateProb)
	for i := 0; i < n; i++ {
		rows = append(rows, rows[g.rng.Intn(len(rows))])
	}
	return rows
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) amount(lo, hi float64, precision int) string {
	return strconv.FormatFloat(lo+g.rng.Float64()*(hi-lo), 'f', precision, 64)
}

// date возвращает случайную дату за последние days дней
func (g *Generator) date(days int) time.Time {
	return g.now.AddDate(0, 0, -g.rng.Intn(days+1))
}

func (g *Generator) phone() string {
	digits := make([]byte, 8)
	for i := range digits {
		digits[i] = byte('0' + g.rng.Intn(10))
	}
	return fmt.Sprintf("0%s %s %s", digits[:3], digits[3:6], digits[6:])
}

func (g *Generator) customers() [][]string {
	churnThreshold := g.now.AddDate(0, 0, -90)
	rows := make([][]string, 0, g.options.Customers)

	for i := 1; i <= g.options.Customers; i++ {
		name := g.maybe(g.pick(firstNames) + " " + g.pick(lastNames))
		email := ""
		if name != "" {
			email = g.maybe(strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@gmail.com")
		}

		lastActive := g.date(180)
		lastActiveCell := g.maybe(lastActive.Format(dateLayout))
		churnStatus := ""
		if lastActiveCell != "" {
			churnStatus = "Churned"
			if !lastActive.Before(churnThreshold) {
				churnStatus = "Active"
			}
		}

		rows = append(rows, []string{
			fmt.Sprintf("C%05d", i),
			name,
			g.pick(genders),
			email,
			g.maybe(g.phone()),
			g.maybe(g.date(730).Format(dateLayout)),
			lastActiveCell,
			g.maybe(fmt.Sprintf("City_%d", g.between(1, 100))),
			churnStatus,
		})
	}
	return rows
}

func (g *Generator) products() [][]string {
	rows := make([][]string, 0, g.options.Products)
	for i := 1; i <= g.options.Products; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("P%04d", i),
			g.maybe(g.pick(adjectives) + " " + g.pick(productTypes)),
			g.maybe(g.pick(productTypes)),
			g.maybe(g.amount(5, 1000, 2)),
			g.maybe(strconv.Itoa(g.between(10, 500))),
			g.maybe(fmt.Sprintf("Supplier_%d", g.between(1, 50))),
			g.maybe(g.amount(3, 5, 1)),
			g.maybe(strconv.Itoa(g.between(5, 500))),
		})
	}
	return rows
}

func (g *Generator) sales(customers, products [][]string) [][]string {
	rows := make([][]string, 0, g.options.Sales)
	for i := 1; i <= g.options.Sales; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("R%07d", i),
			g.maybe(customers[g.rng.Intn(len(customers))][0]),
			g.maybe(products[g.rng.Intn(len(products))][0]),
			g.maybe(g.date(365).Format(dateLayout)),
			g.maybe(g.amount(10, 2000, 2)),
			g.maybe(fmt.Sprintf("PY%06d", g.between(1, g.options.Sales))),
		})
	}
	return rows
}

// payments - по одному платежу на заказ, user_id получается из customer_id заменой C на U
func (g *Generator) payments(customers, sales [][]string) [][]string {
	rows := make([][]string, 0, len(sales))
	for i := 1; i <= g.options.Sales; i++ {
		customerID := customers[g.rng.Intn(len(customers))][0]
		rows = append(rows, []string{
			fmt.Sprintf("PY%06d", i),
			g.maybe(sales[g.rng.Intn(len(sales))][0]),
			"U" + strings.TrimPrefix(customerID, "C"),
			g.maybe(g.date(365).Format(dateLayout)),
			g.maybe(g.pick(paymentMethods)),
			g.maybe(g.amount(10, 2000, 2)),
			g.maybe(g.amount(0.5, 10, 2)),
			g.maybe(g.pick(paymentStatus)),
		})
	}
	return rows
}

func (g *Generator) ads() [][]string {
	rows := make([][]string, 0, g.options.Ads)
	for i := 0; i < g.options.Ads; i++ {
		rows = append(rows, []string{
			g.maybe(g.pick(adSources)),
			g.maybe(g.pick(campaignWords) + " " + g.pick(campaignNouns)),
			g.maybe(strconv.Itoa(g.between(100, 10000))),
			g.maybe(strconv.Itoa(g.between(10, 5000))),
			g.maybe(g.amount(0.1, 5, 2)),
			g.maybe(g.amount(1, 5, 2)),
		})
	}
	return rows
}

func (g *Generator) tickets(customers [][]string) [][]string {
	rows := make([][]string, 0, g.options.Tickets)
	for i := 1; i <= g.options.Tickets; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("T%04d", i),
			g.maybe(customers[g.rng.Intn(len(customers))][0]),
			g.maybe(g.pick(issueTypes)),
			g.maybe(fmt.Sprintf("%d hours", g.between(1, 48))),
			g.maybe(g.pick(resolutions)),
			g.maybe(g.amount(1, 5, 1)),
		})
	}
	return rows
}
